package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// Store keeps the record collection and custom categories as JSON documents
// in a kv.Store.
type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) LoadRecords(ctx context.Context) ([]record.Record, error) {
	var records []record.Record
	if err := s.load(ctx, kv.KeyRecords, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *Store) SaveRecords(ctx context.Context, records []record.Record) error {
	if records == nil {
		records = []record.Record{}
	}

	return s.save(ctx, kv.KeyRecords, records)
}

func (s *Store) LoadCategories(ctx context.Context) ([]json.RawMessage, error) {
	var cats []json.RawMessage
	if err := s.load(ctx, kv.KeyCustomCategories, &cats); err != nil {
		return nil, err
	}

	return cats, nil
}

func (s *Store) SaveCategories(ctx context.Context, categories []json.RawMessage) error {
	if categories == nil {
		categories = []json.RawMessage{}
	}

	return s.save(ctx, kv.KeyCustomCategories, categories)
}

// load leaves dst untouched when key is absent.
func (s *Store) load(ctx context.Context, key string, dst any) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}

	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := s.kv.Put(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}
