// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
)

func (c *testClient) createHero(title string, active bool) {
	c.t.Helper()
	fields := map[string]string{"title": title, "caption": title + " caption"}
	if active {
		fields["is_active"] = "1"
	}
	resp := c.postMultipart(redirectHeroes, fields, testPNG(c.t, 80, 40))
	assertRedirect(c.t, resp, redirectHeroes)
}

func (a *testApp) heroTitles(t *testing.T) []string {
	t.Helper()
	heroes, err := a.store.Heroes().List(context.Background())
	if err != nil {
		t.Fatalf("listing heroes: %v", err)
	}
	titles := make([]string, 0, len(heroes))
	for _, h := range heroes {
		titles = append(titles, h.Title)
	}
	return titles
}

func assertTitles(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("titles = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("titles = %v; want %v", got, want)
		}
	}
}

func TestHeroes(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.register("alice")

	assertStatus(t, c.get(redirectHeroesNew).Status, http.StatusOK)

	c.createHero("Sunrise", true)
	c.createHero("Sunset", true)
	c.createHero("Backstage", false)
	assertTitles(t, app.heroTitles(t), "Sunrise", "Sunset", "Backstage")

	list := c.get(redirectHeroes)
	assertStatus(t, list.Status, http.StatusOK)
	assertContains(t, list.Body, "Hero image created.")
	assertContains(t, list.Body, "Backstage")

	home := app.client(t).get(RouteRoot)
	assertContains(t, home.Body, `alt="Sunrise"`)
	assertContains(t, home.Body, `alt="Sunset"`)
	assertNotContains(t, home.Body, `alt="Backstage"`)

	assertRedirect(t, c.postForm("/dashboard/heroes/2/move", url.Values{fieldDirection: {"up"}}), redirectHeroes)
	assertTitles(t, app.heroTitles(t), "Sunset", "Sunrise", "Backstage")

	// Past the end is a no-op.
	assertRedirect(t, c.postForm("/dashboard/heroes/3/move", url.Values{fieldDirection: {"down"}}), redirectHeroes)
	assertTitles(t, app.heroTitles(t), "Sunset", "Sunrise", "Backstage")

	assertRedirect(t, c.postForm("/dashboard/heroes/1/move", url.Values{fieldDirection: {"sideways"}}), redirectHeroes)
	assertContains(t, c.get(redirectHeroes).Body, "Unknown direction.")

	// Edits keep the image when none is sent.
	resp := c.get("/dashboard/heroes/3/edit")
	assertStatus(t, resp.Status, http.StatusOK)
	assertContains(t, resp.Body, `value="Backstage"`)

	resp = c.postMultipart("/dashboard/heroes/3/edit", map[string]string{
		"title":     "Backstage",
		"is_active": "1",
	}, nil)
	assertRedirect(t, resp, redirectHeroes)
	assertContains(t, app.client(t).get(RouteRoot).Body, `alt="Backstage"`)

	assertRedirect(t, c.postForm("/dashboard/heroes/1/delete", nil), redirectHeroes)
	assertTitles(t, app.heroTitles(t), "Sunset", "Backstage")
	assertNotContains(t, app.client(t).get(RouteRoot).Body, `alt="Sunrise"`)

	assertStatus(t, c.postForm("/dashboard/heroes/1/delete", nil).Status, http.StatusNotFound)
	assertStatus(t, c.get("/dashboard/heroes/99/edit").Status, http.StatusNotFound)
}

func TestHeroes_Validation(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.register("alice")

	resp := c.postMultipart(redirectHeroes, map[string]string{
		"title":    "",
		"link_url": "not a url",
	}, nil)
	assertStatus(t, resp.Status, http.StatusUnprocessableEntity)
	assertContains(t, resp.Body, "Title is required.")
	assertContains(t, resp.Body, "Image is required.")
	assertContains(t, resp.Body, "Link url must be a valid URL.")

	if got := app.heroTitles(t); len(got) != 0 {
		t.Errorf("heroes = %v; want none", got)
	}
}

func TestHeroes_RequireLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	assertRedirect(t, c.get(redirectHeroes), redirectLogin)
	assertRedirect(t, c.postForm("/dashboard/heroes/1/move", url.Values{fieldDirection: {"up"}}), redirectLogin)
}
