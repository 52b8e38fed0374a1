package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*SQLiteStore)(nil)
var _ Store = (*PostgresStore)(nil)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// storeTestSuite exercises backend-independent Store behavior. Only the
// SQLite backend runs it here; Postgres behavior is covered by pgxmock.
func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("RoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		company := testCompany("the-trade-desk", "The Trade Desk")
		require.NoError(t, s.UpsertCompany(ctx, company))

		got, err := s.GetCompany(ctx, "the-trade-desk")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, company, *got)
		require.Len(t, got.QuarterlyData, 4)
	})

	t.Run("AnalysisCacheLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SetCachedAnalysis(ctx, "acme::2025", []byte(`{"ok":true}`), time.Hour))
		data, err := s.GetCachedAnalysis(ctx, "acme::2025")
		require.NoError(t, err)
		assert.NotNil(t, data)

		n, err := s.DeleteExpiredAnalyses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}

func TestSQLiteStoreSuite(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
