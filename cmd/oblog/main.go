// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/config"
	"github.com/olegiv/oblog/internal/geoip"
	"github.com/olegiv/oblog/internal/handler"
	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/logging"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/scheduler"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/storage"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/version"
	"github.com/olegiv/oblog/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// contactRate is the sustained contact form rate per IP (one per minute).
const contactRate = 1.0 / 60

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oblog - a small multi-author blog\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_SESSION_SECRET      Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_DB_PATH             SQLite database path (default: ./data/oblog.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_STORAGE             Image storage: local|minio (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_UPLOADS_DIR         Local image directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_REDIS_URL           Redis URL for the hero cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_GEOIP_DB_PATH       GeoLite2 country database (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_SLUG_POLICY         Slug collisions: suffix|strict (default: suffix)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_SITE_URL            Public base URL for the sitemap (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_EVENT_RETENTION_DAYS Days of event log kept (default: 90, 0 keeps all)\n")
	}

	flag.Parse()

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(info.Full("oblog"))
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	st := store.NewStore(db)

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisURL = cfg.RedisURL
	cacheCfg.Prefix = cfg.CachePrefix
	cacheCfg.DefaultTTL = cfg.CacheTTLDuration()
	cacheCfg.MaxSize = cfg.CacheMaxSize
	heroCache, backend := cache.New(ctx, cacheCfg)
	defer func() { _ = heroCache.Close() }()
	slog.Info(handler.LogCacheInit, "backend", backend)

	blobs, uploadsDir, err := openBlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	images := imaging.NewProcessor(blobs)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, country lookup disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	markdown := service.NewMarkdown()
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Markdown:       markdown,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	events := service.NewEventService(db)
	users := service.NewUserService(st.Users(), auth.NewHasher(auth.DefaultParams))
	posts := service.NewPostService(service.NewSQLPostStore(st), images,
		service.NewSlugResolver(service.SlugPolicy(cfg.SlugPolicy)))
	heroes := service.NewHeroService(service.NewSQLHeroStore(st), images, heroCache)
	contacts := service.NewContactService(st.Contacts(), geo)

	sched := scheduler.New(logger)
	if err := sched.Add("event-retention", "Delete old event log entries", scheduler.EventRetentionSchedule,
		scheduler.EventRetentionJob(events, cfg.EventRetentionDays, logger)); err != nil {
		return fmt.Errorf("scheduling event retention: %w", err)
	}
	if geo.Enabled() {
		if err := sched.Add("geoip-reload", "Reopen the GeoIP database", scheduler.GeoIPReloadSchedule,
			scheduler.GeoIPReloadJob(geo)); err != nil {
			return fmt.Errorf("scheduling geoip reload: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	router := handler.NewRouter(handler.RouterConfig{
		SessionManager:  sessionManager,
		Users:           st.Users(),
		SecurityHeaders: middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		CSRF: middleware.CSRF(middleware.DefaultCSRFConfig(
			[]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())),
		LoginProtection: loginProtection,
		ContactLimiter:  middleware.NewIPRateLimiter(contactRate, 3),
		Static:          static,
		AccessLog:       cfg.IsDevelopment(),
	}, handler.Handlers{
		Auth:      handler.NewAuthHandler(users, renderer, sessionManager, events, loginProtection),
		Posts:     handler.NewPostsHandler(posts, heroes, events, renderer),
		Contact:   handler.NewContactHandler(contacts, events, renderer),
		Heroes:    handler.NewHeroesHandler(heroes, events, renderer),
		Dashboard: handler.NewDashboardHandler(posts, contacts, events, renderer),
		Uploads:   handler.NewUploadsHandler(blobs),
		Health:    handler.NewHealthHandler(st, uploadsDir, info),
		SEO:       handler.NewSEOHandler(posts, cfg.SiteURL, cfg.IsDevelopment()),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if sp, ok := heroCache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		slog.Info("cache stats", "backend", backend, "hits", stats.Hits, "misses", stats.Misses, "hit_rate", stats.HitRate)
	}
	slog.Info("server stopped")
	return nil
}

// openBlobStore returns the configured image store and, for local storage,
// the directory checked by the health endpoint.
func openBlobStore(ctx context.Context, cfg *config.Config) (storage.Blob, string, error) {
	if cfg.Storage == config.StorageMinIO {
		blobs, err := storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("connecting to minio: %w", err)
		}
		slog.Info("image storage initialized", "backend", "minio", "bucket", cfg.MinIO.Bucket)
		return blobs, "", nil
	}

	blobs, err := storage.NewLocal(cfg.UploadsDir)
	if err != nil {
		return nil, "", fmt.Errorf("creating uploads directory: %w", err)
	}
	slog.Info("image storage initialized", "backend", "local", "dir", cfg.UploadsDir)
	return blobs, cfg.UploadsDir, nil
}
