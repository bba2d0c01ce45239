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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/config"
	"github.com/hus-nain/portfolio-go/internal/handler"
	"github.com/hus-nain/portfolio-go/internal/handler/api"
	"github.com/hus-nain/portfolio-go/internal/imagehost"
	"github.com/hus-nain/portfolio-go/internal/mailer"
	"github.com/hus-nain/portfolio-go/internal/middleware"
	"github.com/hus-nain/portfolio-go/internal/render"
	"github.com/hus-nain/portfolio-go/internal/store"
	"github.com/hus-nain/portfolio-go/internal/version"
	"github.com/hus-nain/portfolio-go/web"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "portfolio - Personal portfolio site with admin panel and REST API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_JWT_SECRET             Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_DB_PATH                SQLite database path (default: ./data/portfolio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_SERVER_PORT            Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_CLOUDINARY_CLOUD_NAME  Cloudinary cloud name (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_CLOUDINARY_API_KEY     Cloudinary API key (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_CLOUDINARY_API_SECRET  Cloudinary API secret (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_SMTP_HOST              SMTP host for the contact form (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_CONTACT_RECIPIENT      Contact form recipient address (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_ADMIN_EMAIL            Initial admin email (seeded once)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_ADMIN_PASSWORD         Initial admin password (seeded once)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("portfolio %s\n", version.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
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

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Session tokens
	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Image host
	images, err := imagehost.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return fmt.Errorf("initializing image host: %w", err)
	}
	slog.Info("image host initialized", "cloud", cfg.CloudinaryCloudName)

	// Outbound mail. A nil mailer keeps the contact endpoints up but returns
	// 503 until SMTP is configured.
	var mail mailer.Mailer
	if cfg.MailEnabled() {
		smtp, err := mailer.NewSMTP(mailer.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			Recipient: cfg.ContactRecipient,
		})
		if err != nil {
			return fmt.Errorf("initializing mailer: %w", err)
		}
		mail = smtp
		slog.Info("mailer initialized", "host", cfg.SMTPHost, "recipient", cfg.ContactRecipient)
	} else {
		slog.Warn("outbound mail not configured; contact form is disabled")
	}

	// Template renderer over the embedded templates
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Login protection: per-IP rate limit on POST plus per-account lockout
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Global API rate limiter
	apiRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Handlers
	pageHandler := handler.New(db, renderer, images, mail)
	authHandler := handler.NewAuthHandler(db, renderer, tokens, loginProtection, !cfg.IsDevelopment())
	apiHandler := api.NewHandler(db, images, mail, tokens, loginProtection)

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(cfg.IsDevelopment()))

	// Public pages
	r.Get("/", pageHandler.Home)
	r.Get("/projects", pageHandler.Projects)
	r.Get("/projects/{slug}", pageHandler.ProjectDetail)
	r.Get("/skills", pageHandler.Skills)
	r.Get("/contact", pageHandler.ContactForm)
	r.Post("/contact", pageHandler.ContactSubmit)

	// Admin login (rate limited before credentials are checked)
	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())
		r.With(middleware.RedirectIfAuthenticated(tokens, db)).
			Get(middleware.LoginPath, authHandler.LoginForm)
		r.Post(middleware.LoginPath, authHandler.Login)
	})
	r.Post("/admin/logout", authHandler.Logout)

	// Admin panel (cookie guarded)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequirePage(tokens, db))
		r.Get("/", pageHandler.Dashboard)

		r.Get("/projects", pageHandler.AdminProjects)
		r.Get("/projects/new", pageHandler.AdminProjectNew)
		r.Post("/projects", pageHandler.AdminProjectCreate)
		r.Get("/projects/{id}/edit", pageHandler.AdminProjectEdit)
		r.Post("/projects/{id}", pageHandler.AdminProjectUpdate)
		r.Post("/projects/{id}/delete", pageHandler.AdminProjectDelete)

		r.Get("/skills", pageHandler.AdminSkills)
		r.Get("/skills/new", pageHandler.AdminSkillNew)
		r.Post("/skills", pageHandler.AdminSkillCreate)
		r.Get("/skills/{id}/edit", pageHandler.AdminSkillEdit)
		r.Post("/skills/{id}", pageHandler.AdminSkillUpdate)
		r.Post("/skills/{id}/delete", pageHandler.AdminSkillDelete)

		r.Get("/profile", pageHandler.AdminProfile)
		r.Post("/profile", pageHandler.AdminProfileUpdate)
		r.Post("/profile/resume", pageHandler.AdminResumeUpload)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.AllowedOrigins))
		r.Use(apiRateLimiter.Middleware())

		r.Get("/status", apiHandler.Status)
		r.With(loginProtection.Middleware()).Post("/auth/login", apiHandler.Login)

		r.Get("/projects", apiHandler.ListProjects)
		r.Get("/projects/featured", apiHandler.ListFeaturedProjects)
		r.Get("/projects/{slug}", apiHandler.GetProject)
		r.Get("/skills", apiHandler.ListSkills)
		r.Get("/skills/{id}", apiHandler.GetSkill)
		r.Get("/profile", apiHandler.GetProfile)
		r.Post("/contact", apiHandler.Contact)

		// Token guarded
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireToken(tokens, db))

			r.Get("/auth/me", apiHandler.Me)

			r.Post("/projects", apiHandler.CreateProject)
			r.Put("/projects/{id}", apiHandler.UpdateProject)
			r.Delete("/projects/{id}", apiHandler.DeleteProject)

			r.Post("/skills", apiHandler.CreateSkill)
			r.Put("/skills/{id}", apiHandler.UpdateSkill)
			r.Delete("/skills/{id}", apiHandler.DeleteSkill)

			r.Put("/profile", apiHandler.UpdateProfile)
			r.Post("/profile/resume", apiHandler.UploadResume)
		})
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.NotFound(pageHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
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

	slog.Info("server stopped")
	return nil
}
