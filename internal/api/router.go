package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Trading-Journal-Backend/internal/api/middleware"
	"github.com/ndewijer/Trading-Journal-Backend/internal/config"
	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/pagetoken"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// Services groups the services the HTTP layer delegates to.
type Services struct {
	System  *service.SystemService
	Audit   *service.AuditService
	Ledger  *service.LedgerService
	Summary *service.SummaryService
	Import  *service.ImportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, tokens *pagetoken.Codec, cfg *config.Config, logger *logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System, svc.Audit)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Get("/audit", systemHandler.Audit)
		})

		r.Route("/entry", func(r chi.Router) {
			entryHandler := handlers.NewEntryHandler(svc.Ledger, tokens, handlers.PageLimits{
				Default: cfg.Pagination.DefaultLimit,
				Max:     cfg.Pagination.MaxLimit,
			})
			importHandler := handlers.NewImportHandler(svc.Import)

			r.Get("/", entryHandler.ListEntries)
			r.Post("/", entryHandler.CreateEntry)
			r.Get("/closed", entryHandler.ClosedEntries)
			r.Post("/import", importHandler.ImportEntries)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", entryHandler.GetEntry)
				r.Get("/exit", entryHandler.EntryExits)
			})
		})

		r.Route("/exit", func(r chi.Router) {
			exitHandler := handlers.NewExitHandler(svc.Ledger)

			r.Post("/", exitHandler.CreateExit)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", exitHandler.GetExit)
		})

		r.Route("/summary", func(r chi.Router) {
			summaryHandler := handlers.NewSummaryHandler(svc.Summary)
			r.Get("/monthly", summaryHandler.Monthly)
		})
	})

	return r
}
