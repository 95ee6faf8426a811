package kv_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
)

func newSQLiteStore(t *testing.T) *kv.SQLStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	// every connection to :memory: gets its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := kv.NewSQLStore(db, kv.DialectSQLite)
	require.NoError(t, s.Migrate(context.Background()))

	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) kv.Store{
		"Memory": func(*testing.T) kv.Store { return kv.NewMemory() },
		"SQLite": func(t *testing.T) kv.Store { return newSQLiteStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, err := s.Get(ctx, kv.KeyRecords)
			assert.ErrorIs(t, err, kv.ErrNotFound)

			require.NoError(t, s.Put(ctx, kv.KeyRecords, `[]`))
			require.NoError(t, s.Put(ctx, kv.KeyRecords, `[{"id":1}]`))

			got, err := s.Get(ctx, kv.KeyRecords)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":1}]`, got)

			require.NoError(t, s.Delete(ctx, kv.KeyRecords))

			_, err = s.Get(ctx, kv.KeyRecords)
			assert.ErrorIs(t, err, kv.ErrNotFound)

			assert.NoError(t, s.Delete(ctx, "missing"))
		})
	}
}

func TestSQLStore_MigrateIsIdempotent(t *testing.T) {
	s := newSQLiteStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}
