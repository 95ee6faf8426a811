package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/record/store"
)

func TestStore_Records(t *testing.T) {
	ctx := context.Background()
	backing := kv.NewMemory()
	s := store.New(backing)

	got, err := s.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	in := []record.Record{{
		ID:         1,
		Kind:       record.KindIncome,
		Category:   "红包",
		Amount:     decimal.RequireFromString("8.88"),
		Note:       "春节",
		OccurredAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, s.SaveRecords(ctx, in))

	got, err = s.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "红包", got[0].Category)
	assert.True(t, in[0].Amount.Equal(got[0].Amount))

	require.NoError(t, s.SaveRecords(ctx, nil))

	raw, err := backing.Get(ctx, kv.KeyRecords)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestStore_CorruptRecords(t *testing.T) {
	ctx := context.Background()
	backing := kv.NewMemory()
	require.NoError(t, backing.Put(ctx, kv.KeyRecords, "{not json"))

	_, err := store.New(backing).LoadRecords(ctx)
	assert.Error(t, err)
}

func TestStore_Categories(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())

	cats := []json.RawMessage{json.RawMessage(`{"name":"宠物","emoji":"🐱","type":"支出"}`)}
	require.NoError(t, s.SaveCategories(ctx, cats))

	got, err := s.LoadCategories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, string(cats[0]), string(got[0]))
}
