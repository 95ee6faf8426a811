// Package kv is the local key/value storage the record collection lives in.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Keys used by the application.
const (
	KeyRecords          = "accounting_records"
	KeyCustomCategories = "custom_categories"
	KeyGistID           = "gist_id"
)

type Store interface {
	// Get returns ErrNotFound when key has never been written or was deleted.
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
