package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/adtech-insider/insight-cli/internal/db"
	"github.com/adtech-insider/insight-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"upsert_company": `INSERT INTO companies (id, slug, name, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
		  slug = EXCLUDED.slug, name = EXCLUDED.name,
		  data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	"get_company":    `SELECT data FROM companies WHERE id = $1`,
	"delete_company": `DELETE FROM companies WHERE id = $1`,
	"get_cached_analysis": `SELECT data FROM analysis_cache
		WHERE cache_key = $1 AND expires_at > now()
		ORDER BY cached_at DESC LIMIT 1`,
	"set_cached_analysis": `INSERT INTO analysis_cache (id, cache_key, data, cached_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cache_key) DO UPDATE SET
		  data = EXCLUDED.data, cached_at = EXCLUDED.cached_at,
		  expires_at = EXCLUDED.expires_at`,
	"delete_expired_analyses": `DELETE FROM analysis_cache WHERE expires_at <= now()`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., bulk imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id         TEXT PRIMARY KEY,
	slug       TEXT NOT NULL,
	name       TEXT NOT NULL,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analysis_cache (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	cache_key  TEXT NOT NULL UNIQUE,
	data       JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_slug ON companies(slug);
CREATE INDEX IF NOT EXISTS idx_analysis_cache_key ON analysis_cache(cache_key);
CREATE INDEX IF NOT EXISTS idx_analysis_cache_expires_at ON analysis_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertCompany(ctx context.Context, company model.CanonicalCompany) error {
	data, err := json.Marshal(company)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal company")
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO companies (id, slug, name, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
		  slug = EXCLUDED.slug, name = EXCLUDED.name,
		  data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		company.ID, company.Slug, company.CompanyName, data, now, now,
	)
	return eris.Wrapf(err, "postgres: upsert company %s", company.ID)
}

// UpsertCompanies bulk-upserts via COPY into a temp table, which beats
// row-at-a-time inserts for large import files.
func (s *PostgresStore) UpsertCompanies(ctx context.Context, companies []model.CanonicalCompany) (int, error) {
	if len(companies) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(companies))
	for _, company := range companies {
		data, err := json.Marshal(company)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal company %s", company.ID)
		}
		rows = append(rows, []any{company.ID, company.Slug, company.CompanyName, data, now, now})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "companies",
		Columns:      []string{"id", "slug", "name", "data", "created_at", "updated_at"},
		ConflictKeys: []string{"id"},
		UpdateCols:   []string{"slug", "name", "data", "updated_at"},
	}, rows)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *PostgresStore) GetCompany(ctx context.Context, id string) (*model.CanonicalCompany, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM companies WHERE id = $1`, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %s", id)
	}

	var company model.CanonicalCompany
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal company %s", id)
	}
	return &company, nil
}

func (s *PostgresStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.CanonicalCompany, error) {
	query := `SELECT data FROM companies WHERE true`
	var args []any
	arg := 1

	if filter.Slug != "" {
		query += ` AND slug = $1`
		args = append(args, filter.Slug)
		arg++
	}
	query += ` ORDER BY name ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT $` + strconv.Itoa(arg)
	args = append(args, limit)
	arg++

	if filter.Offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(arg)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var companies []model.CanonicalCompany
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company")
		}
		var company model.CanonicalCompany
		if err := json.Unmarshal(data, &company); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal company")
		}
		companies = append(companies, company)
	}
	return companies, eris.Wrap(rows.Err(), "postgres: list companies iterate")
}

func (s *PostgresStore) DeleteCompany(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete company %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("company not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetCachedAnalysis(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM analysis_cache
		WHERE cache_key = $1 AND expires_at > now()
		ORDER BY cached_at DESC LIMIT 1`,
		key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get cached analysis")
	}
	return data, nil
}

func (s *PostgresStore) SetCachedAnalysis(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_cache (id, cache_key, data, cached_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cache_key) DO UPDATE SET
		  data = EXCLUDED.data, cached_at = EXCLUDED.cached_at,
		  expires_at = EXCLUDED.expires_at`,
		uuid.New().String(), key, data, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached analysis")
}

func (s *PostgresStore) DeleteExpiredAnalyses(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM analysis_cache WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired analyses")
	}
	return int(tag.RowsAffected()), nil
}
