// Package main is the entry point for the portfolio server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/contact"
	"portfolio/internal/database"
	"portfolio/internal/handlers"
	"portfolio/internal/mail"
	"portfolio/internal/middleware"
	"portfolio/internal/render"
	"portfolio/internal/router"
	"portfolio/internal/service"
	"portfolio/internal/session"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

// Per-IP limits on the form endpoints.
const (
	contactRequests = 10
	loginRequests   = 5
	limiterWindow   = time.Minute
)

func main() {
	reset2FA := flag.String("reset-2fa", "", "clear the authenticator of the operator with this email and exit")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nWithout options the web server starts.\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// A missing .env file is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logger *slog.Logger
	if cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site_url", cfg.SiteURL,
		"cache", cfg.CacheBackend,
	)

	if *reset2FA != "" {
		if err := resetTwoFactor(cfg, *reset2FA); err != nil {
			slog.Error("2fa reset failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	if err := database.Seed(ctx, db, database.Superuser{
		Email:       cfg.SuperuserEmail,
		Password:    cfg.SuperuserPassword,
		DisplayName: cfg.SuperuserName,
	}); err != nil {
		return err
	}

	// Valkey holds admin sessions, and the landing cache when selected.
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	var landingCache cache.Cache = cache.NewMemory()
	if cfg.CacheBackend == config.CacheValkey {
		landingCache = cache.NewRedis(valkeyClient, cache.DefaultPrefix)
	}

	// Media goes to S3 when configured, otherwise to MEDIA_ROOT.
	var media storage.Storage
	var localMedia http.Handler
	s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return err
	}
	if s3 != nil {
		media = s3
		slog.Info("s3 media storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		local, err := storage.NewLocal(cfg.MediaRoot, cfg.MediaURL)
		if err != nil {
			return err
		}
		media = local
		localMedia = http.FileServer(http.Dir(local.Root()))
		slog.Info("local media storage configured", "root", local.Root())
	}

	renderer, err := render.New(cfg.IsDev(), render.WithMediaURL(media.URL))
	if err != nil {
		return err
	}

	// Contact notifications go over SMTP, or to the log when no server is set.
	var sender mail.Sender = mail.LogSender{}
	if cfg.SMTPEnabled() {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	notifier := mail.NewNotifier(sender, cfg.MailFrom, cfg.MailTo...)
	if !notifier.Enabled() {
		slog.Warn("MAIL_TO is empty; contact notifications are disabled")
	}

	// Data stores.
	stores := service.Stores{
		Profiles:     store.NewProfileStore(db),
		Projects:     store.NewProjectStore(db),
		Skills:       store.NewSkillStore(db),
		Testimonials: store.NewTestimonialStore(db),
		Posts:        store.NewBlogPostStore(db),
		Messages:     store.NewContactMessageStore(db),
		Dashboard:    store.NewDashboardStore(db),
	}
	userStore := store.NewUserStore(db)

	landing := service.NewLanding(landingCache, stores.Profiles, stores.Projects, stores.Skills, stores.Testimonials, stores.Posts)
	backoffice := service.NewBackoffice(stores, landing)
	intake := contact.NewService(stores.Messages, notifier)

	contactLimiter := middleware.NewRateLimiter(contactRequests, limiterWindow)
	defer contactLimiter.Stop()
	loginLimiter := middleware.NewRateLimiter(loginRequests, limiterWindow)
	defer loginLimiter.Stop()

	r := router.New(sessionStore, router.Handlers{
		Public: handlers.NewPublic(renderer, landing, stores.Projects, stores.Posts, intake, cfg.SiteURL, secureCookies),
		API:    handlers.NewAPI(stores.Projects, stores.Skills, stores.Posts, cfg.SiteURL),
		Auth:   handlers.NewAuth(renderer, sessionStore, userStore),
		Admin:  handlers.NewAdmin(renderer, backoffice, media),
	}, router.Options{
		Secure:         secureCookies,
		AllowedHosts:   cfg.AllowedHosts,
		CORSOrigins:    cfg.CORSOrigins,
		Media:          localMedia,
		ContactLimiter: contactLimiter,
		LoginLimiter:   loginLimiter,
	})

	// WriteTimeout leaves room for the synchronous SMTP notification on
	// contact submissions.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// resetTwoFactor lets an operator who lost their authenticator enroll again
// on the next sign-in.
func resetTwoFactor(cfg *config.Config, email string) error {
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	users := store.NewUserStore(db)
	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no operator with email %q", email)
	}
	if err := users.ResetTOTP(ctx, user.ID); err != nil {
		return err
	}
	slog.Info("2fa reset, operator will enroll on next sign-in", "email", user.Email)
	return nil
}
