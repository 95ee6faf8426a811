// Package remote defines the single-slot blob that records are synced to.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// ErrNoSnapshot is returned by Fetch when the slot has never been written.
var ErrNoSnapshot = errors.New("no remote snapshot")

// ErrCorruptSnapshot is returned by Fetch when the slot holds a document
// that does not decode. Pushing over it discards whatever it held.
var ErrCorruptSnapshot = errors.New("remote snapshot is corrupt")

// Snapshot is the document kept in the remote slot. Categories are stored
// as given and never interpreted.
type Snapshot struct {
	Records    []record.Record   `json:"records"`
	Categories []json.RawMessage `json:"categories"`
	LastSync   time.Time         `json:"lastSync"`
}

//go:generate mockgen -source=remote.go -destination=store_mock.go -package=remote
type Store interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	Put(ctx context.Context, snap *Snapshot) error
}

// Encode renders snap the way it is stored remotely.
func Encode(snap *Snapshot) ([]byte, error) {
	out := *snap
	if out.Records == nil {
		out.Records = []record.Record{}
	}

	if out.Categories == nil {
		out.Categories = []json.RawMessage{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	return data, nil
}

func Decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w: %w", ErrCorruptSnapshot, err)
	}

	return &snap, nil
}
