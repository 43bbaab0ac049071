package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"btoportal/internal/application"
	"btoportal/internal/auth"
	"btoportal/internal/enquiry"
	"btoportal/internal/ingest"
	"btoportal/internal/officer"
	"btoportal/internal/platform/config"
	"btoportal/internal/platform/httpserver"
	"btoportal/internal/platform/logger"
	"btoportal/internal/platform/metrics"
	"btoportal/internal/platform/middleware"
	"btoportal/internal/project"
	"btoportal/internal/report"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
)

// main wires stores, services, and the HTTP router, then runs the server
// until interrupted. Business rules live in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	users := user.NewInMemoryStore()
	projects := project.NewInMemoryStore()
	applications := application.NewInMemoryStore()
	enquiries := enquiry.NewInMemoryStore()

	ctx := context.Background()
	if err := loadSeedData(ctx, cfg, users, projects); err != nil {
		log.Error("failed to load seed data", "error", err.Error())
		os.Exit(1)
	}

	signer := auth.NewSessionSigner(cfg.SessionSignerKey, 12*time.Hour)

	authSvc := auth.New(users, signer, auth.WithLogger(log))
	projectSvc := project.New(projects, users, project.WithLogger(log))
	applicationSvc := application.New(applications, projects, users,
		application.WithLogger(log),
		application.WithMetrics(m),
	)
	officerSvc := officer.New(users, projects, applications,
		officer.WithLogger(log),
		officer.WithMetrics(m),
	)
	reportSvc := report.New(applications, projects, users)
	enquirySvc := enquiry.New(enquiries, users, enquiry.WithLogger(log))

	authHandler := auth.NewHandler(authSvc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	authHandler.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(signer, log))
		authHandler.Register(r)
		project.NewHandler(projectSvc, log).Register(r)
		application.NewHandler(applicationSvc, log).Register(r)
		officer.NewHandler(officerSvc, log).Register(r)
		report.NewHandler(reportSvc).Register(r)
		enquiry.NewHandler(enquirySvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	go func() {
		log.Info("starting btoportal", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

// loadSeedData ingests the optional bootstrap CSV lists. Missing paths are
// skipped; a present but malformed file aborts startup.
func loadSeedData(ctx context.Context, cfg config.Server, users *user.InMemoryStore, projects *project.InMemoryStore) error {
	lists := []struct {
		path string
		role domain.Role
	}{
		{cfg.ApplicantListPath, domain.RoleApplicant},
		{cfg.OfficerListPath, domain.RoleOfficer},
		{cfg.ManagerListPath, domain.RoleManager},
	}
	for _, l := range lists {
		if l.path == "" {
			continue
		}
		if _, err := ingest.LoadUsers(ctx, l.path, l.role, users); err != nil {
			return err
		}
	}
	if cfg.ProjectListPath != "" {
		if _, err := ingest.LoadProjects(ctx, cfg.ProjectListPath, users, projects); err != nil {
			return err
		}
	}
	return nil
}
