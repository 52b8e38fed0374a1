// Package store persists canonical companies and cached analyses. Two
// backends are provided: SQLite for local single-user work and PostgreSQL
// for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/adtech-insider/insight-cli/internal/model"
)

// CompanyFilter specifies criteria for listing companies.
type CompanyFilter struct {
	Slug   string `json:"slug,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the insight pipeline.
// Get methods report a miss as (nil, nil).
type Store interface {
	// Companies
	UpsertCompany(ctx context.Context, company model.CanonicalCompany) error
	UpsertCompanies(ctx context.Context, companies []model.CanonicalCompany) (int, error)
	GetCompany(ctx context.Context, id string) (*model.CanonicalCompany, error)
	ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.CanonicalCompany, error)
	DeleteCompany(ctx context.Context, id string) error

	// Analysis cache
	GetCachedAnalysis(ctx context.Context, key string) ([]byte, error)
	SetCachedAnalysis(ctx context.Context, key string, data []byte, ttl time.Duration) error
	DeleteExpiredAnalyses(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
