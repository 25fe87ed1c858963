// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/storage"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
	"github.com/olegiv/oblog/internal/version"
	"github.com/olegiv/oblog/web"
)

const testPassword = "correct horse battery"

// testApp is the full application served by an httptest.Server.
type testApp struct {
	server *httptest.Server
	store  *store.Store
	blobs  *storage.Local
	health *HealthHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.TestDB(t)
	st := store.NewStore(db)
	sm := session.New(db, true)

	renderer := newTestRenderer(t, sm)
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		t.Fatalf("static fs: %v", err)
	}

	blobs, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}
	images := imaging.NewProcessor(blobs)

	hasher := auth.NewHasher(auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	events := service.NewEventService(db)
	users := service.NewUserService(st.Users(), hasher)
	posts := service.NewPostService(service.NewSQLPostStore(st), images, service.NewSlugResolver(service.PolicySuffix))
	heroCache := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = heroCache.Close() })
	heroes := service.NewHeroService(service.NewSQLHeroStore(st), images, heroCache)
	contacts := service.NewContactService(st.Contacts(), nil)

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
	t.Cleanup(lp.Close)

	health := NewHealthHandler(st, "", version.Info{Version: "v0.0.0-test"})

	router := NewRouter(RouterConfig{
		SessionManager:  sm,
		Users:           st.Users(),
		SecurityHeaders: middleware.DefaultSecurityHeadersConfig(true),
		CSRF:            middleware.CSRF(middleware.DefaultCSRFConfig([]byte(strings.Repeat("k", 32)), false, "")),
		LoginProtection: lp,
		ContactLimiter:  middleware.NewIPRateLimiter(0.001, 3),
		Static:          static,
	}, Handlers{
		Auth:      NewAuthHandler(users, renderer, sm, events, lp),
		Posts:     NewPostsHandler(posts, heroes, events, renderer),
		Contact:   NewContactHandler(contacts, events, renderer),
		Heroes:    NewHeroesHandler(heroes, events, renderer),
		Dashboard: NewDashboardHandler(posts, contacts, events, renderer),
		Uploads:   NewUploadsHandler(blobs),
		Health:    health,
		SEO:       NewSEOHandler(posts, "", false),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{server: srv, store: st, blobs: blobs, health: health}
}

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		Markdown:       service.NewMarkdown(),
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return renderer
}

// testClient is a browser-like client with its own cookie jar that does
// not follow redirects.
type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func (a *testApp) client(t *testing.T) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testClient{
		t:    t,
		base: a.server.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// response is a fully read HTTP response.
type response struct {
	Status   int
	Header   http.Header
	Body     string
	Location string
}

func (c *testClient) do(req *http.Request) response {
	c.t.Helper()
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading body: %v", err)
	}
	return response{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     string(body),
		Location: resp.Header.Get("Location"),
	}
}

func (c *testClient) get(path string) response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		c.t.Fatal(err)
	}
	return c.do(req)
}

func (c *testClient) postForm(path string, form url.Values) response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// postMultipart sends fields and, when image is not nil, an "image" file.
func (c *testClient) postMultipart(path string, fields map[string]string, image []byte) response {
	c.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			c.t.Fatal(err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile(fieldImage, "upload.png")
		if err != nil {
			c.t.Fatal(err)
		}
		if _, err := fw.Write(image); err != nil {
			c.t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		c.t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, c.base+path, &buf)
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

// register creates an account through the form and leaves c logged in.
func (c *testClient) register(username string) {
	c.t.Helper()
	resp := c.postForm(RouteRegister, url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {testPassword},
		"confirm_password": {testPassword},
	})
	assertRedirect(c.t, resp, redirectDashboard)
}

// login logs c in as an existing user.
func (c *testClient) login(email, password string) response {
	c.t.Helper()
	return c.postForm(RouteLogin, url.Values{"email": {email}, "password": {password}})
}

// createPost submits the new post form and returns the post path.
func (c *testClient) createPost(title, content, status string) string {
	c.t.Helper()
	resp := c.postMultipart(RoutePosts, map[string]string{
		"title":   title,
		"content": content,
		"status":  status,
	}, nil)
	if resp.Status != http.StatusSeeOther {
		c.t.Fatalf("create %q: status %d, body:\n%s", title, resp.Status, resp.Body)
	}
	return resp.Location
}

func (a *testApp) post(t *testing.T, slug string) model.Post {
	t.Helper()
	p, err := a.store.Posts().FindBySlug(context.Background(), slug)
	if err != nil {
		t.Fatalf("FindBySlug(%q): %v", slug, err)
	}
	return p
}

// testPNG returns an encoded w×h PNG.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func assertRedirect(t *testing.T, resp response, location string) {
	t.Helper()
	if resp.Status != http.StatusSeeOther {
		t.Fatalf("status = %d; want %d, body:\n%s", resp.Status, http.StatusSeeOther, resp.Body)
	}
	if resp.Location != location {
		t.Fatalf("Location = %q; want %q", resp.Location, location)
	}
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Errorf("body does not contain %q:\n%s", want, body)
	}
}

func assertNotContains(t *testing.T, body, unwanted string) {
	t.Helper()
	if strings.Contains(body, unwanted) {
		t.Errorf("body unexpectedly contains %q", unwanted)
	}
}
