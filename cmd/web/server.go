package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/admin"
	"finitefield.org/konstruksi-web/internal/config"
	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/content/sqlite"
	"finitefield.org/konstruksi-web/internal/handlers"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/inertia"
	mw "finitefield.org/konstruksi-web/internal/middleware"
	"finitefield.org/konstruksi-web/internal/observability"
	"finitefield.org/konstruksi-web/internal/view"
)

// app holds the wired server. Fields are set by newApp; tests build it directly.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
	bundle  *i18n.Bundle
	site    *handlers.Site
	admin   *admin.Handlers
	// auth is nil when the admin area is disabled.
	auth   mw.Authenticator
	assets fs.FS
	closer io.Closer
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	seed, err := content.LoadSeed()
	if err != nil {
		return nil, err
	}
	renderer, err := view.New(view.Options{Dev: cfg.Dev, Dir: cfg.TemplatesDir})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
		bundle:  bundle,
		assets:  os.DirFS(cfg.AssetsDir),
	}

	var catalog content.Catalog
	if cfg.DBPath == "" {
		logger.Info("using in-memory catalog")
		catalog = content.NewMemoryCatalog(seed.Projects, seed.Articles)
	} else {
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite catalog", zap.String("path", cfg.DBPath))
		catalog = store
		a.closer = store
	}

	a.auth, err = newAuthenticator(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.site = handlers.New(handlers.Deps{
		Bundle:       bundle,
		Profile:      seed.Profile,
		Catalog:      catalog,
		View:         renderer,
		Metrics:      a.metrics,
		BaseURL:      cfg.BaseURL,
		AssetVersion: cfg.AssetVersion,
		Analytics: view.Analytics{
			GA4MeasurementID: cfg.Analytics.GA4MeasurementID,
			GTMContainerID:   cfg.Analytics.GTMContainerID,
		},
	})
	a.admin = admin.NewHandlers(admin.Dependencies{
		Catalog:      catalog,
		Bundle:       bundle,
		AssetVersion: cfg.AssetVersion,
	})
	return a, nil
}

// newAuthenticator verifies admin tokens with Firebase when a project is
// configured. Outside production the passthrough authenticator is used instead.
func newAuthenticator(ctx context.Context, cfg config.Config, logger *zap.Logger) (mw.Authenticator, error) {
	if cfg.FirebaseProjectID != "" {
		fb, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
		if err != nil {
			return nil, fmt.Errorf("firebase app: %w", err)
		}
		client, err := fb.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth: %w", err)
		}
		authn := mw.NewFirebaseAuthenticator(client)
		authn.RequiredRole = "admin"
		return authn, nil
	}
	if cfg.Production() {
		logger.Warn("admin disabled: FIREBASE_PROJECT_ID is not set")
		return nil, nil
	}
	logger.Warn("admin uses the development authenticator")
	return mw.DefaultAuthenticator(), nil
}

func (a *app) router() http.Handler {
	secure := a.cfg.Production()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(a.logger, a.metrics))
	r.Use(observability.Recovery(a.logger))
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", a.metrics.Handler())
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(a.assets)))

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(mw.Session(mw.SessionOptions{
			SigningKey: []byte(a.cfg.SigningKey),
			Secure:     secure,
			Logger:     a.logger,
		}))
		r.Use(mw.CSRF(secure))
		r.Use(mw.Locale(a.bundle, secure))
		r.Use(mw.Scope)
		r.Use(inertia.VersionCheck(func() string { return a.cfg.AssetVersion }))

		if a.auth != nil {
			login := a.admin.NewLogin(a.auth, a.cfg.AdminLoginPath, secure)
			r.Get(a.cfg.AdminLoginPath, login.Form)
			r.Post(a.cfg.AdminLoginPath, login.Submit)
			r.Post(admin.LogoutPath, login.Logout)
			r.Route("/admin", func(r chi.Router) {
				r.Use(mw.Auth(a.auth, a.cfg.AdminLoginPath))
				a.admin.Routes(r)
			})
		}
		a.site.Routes(r)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (a *app) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.String("env", a.cfg.Env),
			zap.Bool("dev", a.cfg.Dev))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the catalog database, if any.
func (a *app) Close() {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil {
		a.logger.Warn("close catalog", zap.Error(err))
	}
}
