// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/oblog/internal/util"
)

// maxLockout caps the doubling account lockout.
const maxLockout = 24 * time.Hour

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	IPRateLimit float64 // login/register POSTs per second per IP
	IPBurst     int

	// MaxFailedAttempts within AttemptWindow lock the account for
	// LockoutDuration, doubled on every further lockout.
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	AttemptWindow     time.Duration
}

// DefaultLoginProtectionConfig returns the production settings.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

func (c LoginProtectionConfig) withDefaults() LoginProtectionConfig {
	d := DefaultLoginProtectionConfig()
	if c.IPRateLimit <= 0 {
		c.IPRateLimit = d.IPRateLimit
	}
	if c.IPBurst <= 0 {
		c.IPBurst = d.IPBurst
	}
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = d.MaxFailedAttempts
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = d.LockoutDuration
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = d.AttemptWindow
	}
	return c
}

// LoginProtection throttles login and registration per client IP and
// locks accounts, keyed by lower-cased email, after repeated failures.
type LoginProtection struct {
	cfg LoginProtectionConfig
	ips *IPRateLimiter
	now func() time.Time

	mu       sync.Mutex
	accounts map[string]*accountState

	stop     chan struct{}
	stopOnce sync.Once
}

type accountState struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginFailure describes an account after a failed login.
type LoginFailure struct {
	// LockedFor is set when this failure locked the account.
	LockedFor time.Duration
	// Remaining counts the failures still allowed before a lockout.
	Remaining int
}

// NewLoginProtection creates a LoginProtection and starts its sweeper.
// Call Close to stop it.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	cfg = cfg.withDefaults()
	lp := &LoginProtection{
		cfg:      cfg,
		ips:      NewIPRateLimiter(cfg.IPRateLimit, cfg.IPBurst),
		now:      time.Now,
		accounts: make(map[string]*accountState),
		stop:     make(chan struct{}),
	}
	go lp.sweepLoop(10 * time.Minute)
	return lp
}

// AllowIP reports whether another login request from ip may proceed.
func (lp *LoginProtection) AllowIP(ip string) bool {
	return lp.ips.Allow(ip)
}

// Locked returns how long the account stays locked, or zero.
func (lp *LoginProtection) Locked(email string) time.Duration {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.accounts[normalizeEmail(email)]
	if !ok {
		return 0
	}
	if left := a.lockedUntil.Sub(lp.now()); left > 0 {
		return left
	}
	return 0
}

// Fail records a failed login for email.
func (lp *LoginProtection) Fail(email string) LoginFailure {
	email = normalizeEmail(email)
	now := lp.now()

	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.accounts[email]
	if !ok {
		a = &accountState{}
		lp.accounts[email] = a
	}
	if a.failures == 0 || now.Sub(a.windowStart) > lp.cfg.AttemptWindow {
		a.failures = 0
		a.windowStart = now
	}
	a.failures++

	if a.failures < lp.cfg.MaxFailedAttempts {
		slog.Debug("login failure recorded", "email", email, "failures", a.failures)
		return LoginFailure{Remaining: lp.cfg.MaxFailedAttempts - a.failures}
	}

	lock := lockoutFor(lp.cfg.LockoutDuration, a.lockouts)
	a.lockedUntil = now.Add(lock)
	a.lockouts++
	a.failures = 0
	slog.Warn("account locked after failed logins", "email", email, "lockouts", a.lockouts, "duration", lock)
	return LoginFailure{LockedFor: lock, Remaining: lp.cfg.MaxFailedAttempts}
}

// Succeed forgets the failures recorded for email.
func (lp *LoginProtection) Succeed(email string) {
	lp.mu.Lock()
	delete(lp.accounts, normalizeEmail(email))
	lp.mu.Unlock()
}

// Close stops the sweeper. It is safe to call more than once.
func (lp *LoginProtection) Close() {
	lp.stopOnce.Do(func() { close(lp.stop) })
}

// Middleware rate limits POSTs per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := util.ClientIP(r)
			if !lp.AllowIP(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many login attempts, please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sweep drops accounts that are neither locked nor inside a window.
func (lp *LoginProtection) sweep() {
	now := lp.now()
	lp.mu.Lock()
	defer lp.mu.Unlock()
	for email, a := range lp.accounts {
		if !now.Before(a.lockedUntil) && now.Sub(a.windowStart) > lp.cfg.AttemptWindow {
			delete(lp.accounts, email)
		}
	}
}

func (lp *LoginProtection) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			lp.sweep()
		case <-lp.stop:
			return
		}
	}
}

// lockoutFor doubles base once per earlier lockout, up to maxLockout.
func lockoutFor(base time.Duration, lockouts int) time.Duration {
	d := base
	for range lockouts {
		d *= 2
		if d >= maxLockout {
			return maxLockout
		}
	}
	return d
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
