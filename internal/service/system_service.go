package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Trading-Journal-Backend/internal/database"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/version"
)

// SystemService reports the health and version of the running journal.
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService.
// features lists the optional capabilities reported by the version endpoint.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth reports whether the ledger database answers.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version and the state of the schema migrations.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	current, pending, err := database.Version(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	features := make(map[string]bool, len(s.features))
	for k, v := range s.features {
		features[k] = v
	}

	info := model.VersionInfo{
		AppVersion:        version.Version,
		SchemaVersion:     current,
		PendingMigrations: pending,
		Features:          features,
	}
	if pending {
		info.Message = fmt.Sprintf("schema version %d has pending migrations; run `journal migrate`", current)
	}

	return info, nil
}
