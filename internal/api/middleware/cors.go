package middleware

import (
	"slices"

	"github.com/go-chi/cors"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/config"
)

// NewCORS builds the CORS middleware for the journal API. The API only reads
// and appends, so PUT and DELETE are not allowed. Browsers refuse credentials
// on a wildcard origin, so they are only enabled for explicit origins.
func NewCORS(cfg config.CORSConfig) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
		},
		ExposedHeaders:   []string{"Content-Type", response.NextPageTokenHeader},
		AllowCredentials: !slices.Contains(cfg.AllowedOrigins, "*"),
		MaxAge:           300,
	})
}
