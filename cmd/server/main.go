package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Trading-Journal-Backend/internal/analytics"
	"github.com/ndewijer/Trading-Journal-Backend/internal/api"
	"github.com/ndewijer/Trading-Journal-Backend/internal/config"
	"github.com/ndewijer/Trading-Journal-Backend/internal/database"
	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/pagetoken"
	"github.com/ndewijer/Trading-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
	"github.com/ndewijer/Trading-Journal-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level))

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	logger.Info("connected to database", logging.Fields{"path": cfg.Database.Path, "version": version.Version})

	// Create repositories
	entryRepo := repository.NewEntryRepository(db)
	exitRepo := repository.NewExitRepository(db)

	calc := analytics.NewCalculator(cfg.Analytics.FXMultipliers, logger)

	// Create services
	ledgerService := service.NewLedgerService(db, entryRepo, exitRepo, calc, logger)
	summaryService := service.NewSummaryService(db, entryRepo, exitRepo, calc)
	importService := service.NewImportService(ledgerService, logger)
	auditService := service.NewAuditService(entryRepo, logger)
	systemService := service.NewSystemService(db, map[string]bool{
		"csv_import":      true,
		"scheduled_audit": cfg.Audit.Enabled,
	})

	if cfg.Pagination.TokenKey == "" {
		logger.Warn(nil, "PAGE_TOKEN_KEY not set; page tokens will not survive a restart", nil)
	}
	tokens, err := pagetoken.New(cfg.Pagination.TokenKey, cfg.Pagination.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to set up page tokens: %v", err)
	}

	// Schedule the ledger audit
	var scheduler *cron.Cron
	if cfg.Audit.Enabled {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Audit.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := auditService.Run(ctx); err != nil {
				logger.Error(err, "scheduled ledger audit failed", nil)
			}
		})
		if err != nil {
			log.Fatalf("Invalid AUDIT_SCHEDULE %q: %v", cfg.Audit.Schedule, err)
		}
		scheduler.Start()
		logger.Info("ledger audit scheduled", logging.Fields{"schedule": cfg.Audit.Schedule})
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:  systemService,
		Audit:   auditService,
		Ledger:  ledgerService,
		Summary: summaryService,
		Import:  importService,
	}, tokens, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", logging.Fields{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// shut down on a signal or when the listener fails
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", nil)

		if scheduler != nil {
			// wait for a running audit to finish
			<-scheduler.Stop().Done()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(err, "server stopped with error", nil)
		return
	}

	logger.Info("server exited", nil)
}
