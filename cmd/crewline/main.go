// Command crewline runs the operations dashboard API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/crewline/crewline/internal/api"
	"github.com/crewline/crewline/internal/authpw"
	"github.com/crewline/crewline/internal/config"
	"github.com/crewline/crewline/internal/db"
	"github.com/crewline/crewline/internal/db/migrations"
	"github.com/crewline/crewline/internal/dbpool"
	"github.com/crewline/crewline/internal/events"
	"github.com/crewline/crewline/internal/service"
	"github.com/crewline/crewline/internal/session"
	"github.com/crewline/crewline/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.New(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	sessions, err := session.NewRedisStore(cfg.RedisURL.Value(), time.Duration(cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		return err
	}
	defer sessions.Close()

	hub := events.NewHub(log)

	base := store.Base{Pool: pool, Log: log}
	calls := store.NewCallStore(base)
	jobs := store.NewJobStore(base)
	contacts := store.NewContactStore(base)
	followUps := store.NewFollowUpStore(base)
	auditStore := store.NewAuditStore(base)
	members := store.NewMemberStore(base)
	stats := store.NewStatsStore(base)

	auditSvc := service.NewAuditService(auditStore, log)
	deps := &api.RouterDeps{
		Log:           log,
		Pool:          pool,
		Hub:           hub,
		Sessions:      sessions,
		SessionPing:   sessions,
		Auth:          authpw.NewService(members, sessions, log),
		Calls:         service.NewCallService(calls, auditSvc, hub, log),
		Jobs:          service.NewJobService(jobs, auditSvc, hub, log),
		Contacts:      service.NewContactService(contacts, auditSvc, hub, log),
		FollowUps:     service.NewFollowUpService(followUps, auditSvc, hub, log),
		Audit:         auditSvc,
		Members:       members,
		Stats:         stats,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       version,
		SessionTTL:    time.Duration(cfg.SessionTTLHours) * time.Hour,
		SecureCookies: cfg.SecureCookies,
		RetentionDays: cfg.AuditRetentionDays,
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)

		return nil
	})

	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "version": version}).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Shutdown()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
