package main

import (
	"context"
	"crimewatch/apiclient"
	"crimewatch/auth"
	"crimewatch/config"
	"crimewatch/handler"
	"crimewatch/logger"
	"crimewatch/middleware"
	"crimewatch/repository"
	"crimewatch/routes"
	"crimewatch/schema"
	"crimewatch/service"
	"crimewatch/worker"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logs := logger.New(cfg.Log)
	defer logs.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reports API client, shared by every service
	api, err := apiclient.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, nil)
	if err != nil {
		logs.Fatalw("invalid reports API configuration", "error", err)
	}

	// Identity token verification
	if cfg.Auth.Issuer == "" || cfg.Auth.Audience == "" {
		logs.Warnw("AUTH_ISSUER or AUTH_AUDIENCE not set; every admin sign-in will be rejected")
	}
	keySet := auth.NewRemoteKeySet(ctx, cfg.Auth.KeySetURL(), logs)
	verifier := auth.NewCachedVerifier(
		auth.NewVerifier(cfg.Auth.Issuer, cfg.Auth.Audience, keySet.Get),
		time.Duration(cfg.Auth.VerifyCacheTTLSeconds)*time.Second,
	)

	// Moderation audit: MySQL when configured, log otherwise
	var (
		auditStore  worker.AuditStore = worker.LogStore{Log: logs}
		auditReader handler.AuditReader
	)
	if cfg.Database.Enabled() {
		db, err := sql.Open("mysql", cfg.Database.DSN())
		if err != nil {
			logs.Fatalw("failed to open database connection", "error", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logs.Fatalw("failed to ping database", "error", err)
		}
		logs.Infow("database connection established", "host", cfg.Database.Host, "name", cfg.Database.DBName)

		if err := schema.InitializeDatabase(db, logs); err != nil {
			logs.Fatalw("database schema check failed", "error", err)
		}
		auditRepo := repository.NewAuditRepository(db)
		auditStore = auditRepo
		auditReader = auditRepo
	} else {
		logs.Infow("no audit database configured; moderation audit goes to the log")
	}

	auditWorker := worker.NewAuditWorker(
		auditStore,
		cfg.Audit.QueueSize,
		cfg.Audit.BatchSize,
		time.Duration(cfg.Audit.FlushIntervalSeconds)*time.Second,
		logs,
	)
	if err := auditWorker.Start(); err != nil {
		logs.Fatalw("failed to start audit worker", "error", err)
	}
	defer auditWorker.Stop()

	// Session gate and handlers
	cookie := middleware.SessionCookie{Name: cfg.Session.CookieName, MaxAge: cfg.Session.MaxAgeSeconds}
	gate := middleware.NewSessionGate(verifier, cookie, cfg.Session.LoginPath, cfg.Session.AdminPath, logs)

	h := routes.SetupRoutes(routes.Dependencies{
		API:            api,
		Moderation:     service.NewModerationService(api, auditWorker, logs),
		Reports:        service.NewReportService(api, logs),
		Stats:          service.NewStatsService(api, logs),
		Audits:         auditReader,
		Auth:           handler.NewAuthHandler(verifier, cookie, gate, logs),
		Gate:           gate,
		StaticDir:      cfg.Server.StaticDir,
		PageSize:       cfg.Admin.PageSize,
		AllowedOrigins: splitList(cfg.Server.AllowedOrigins),
		Log:            logs,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logs.Infow("server starting", "addr", server.Addr, "api", cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Errorw("server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logs.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Errorw("graceful shutdown failed", "error", err)
	}
}

// splitList splits a comma separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
