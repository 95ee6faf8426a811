// Package cloudsync reconciles the local record collection with the remote
// snapshot.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/reconcile"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/remote"
)

var ErrSyncDisabled = errors.New("cloud sync is not configured")

type Result struct {
	SyncID   string
	Local    int
	Remote   int
	Merged   int
	SyncedAt time.Time

	// FetchErr is set when the remote could not be read. The sync then
	// proceeded as if the remote were empty.
	FetchErr error
}

// RemoteCorrupt reports whether the remote held an undecodable snapshot that
// the push replaced.
func (r *Result) RemoteCorrupt() bool {
	return errors.Is(r.FetchErr, remote.ErrCorruptSnapshot)
}

// Warning describes FetchErr for display, or returns "" when the fetch
// succeeded.
func (r *Result) Warning() string {
	switch {
	case r.FetchErr == nil:
		return ""
	case r.RemoteCorrupt():
		return "remote snapshot was corrupt and has been replaced by local records: " + r.FetchErr.Error()
	default:
		return "remote could not be read, local records were pushed: " + r.FetchErr.Error()
	}
}

type Service struct {
	records *record.Service
	remote  remote.Store
	now     func() time.Time

	mu sync.Mutex
}

// NewService returns a Service that syncs against rs. A nil rs disables
// syncing; every operation then returns ErrSyncDisabled.
func NewService(records *record.Service, rs remote.Store) *Service {
	return &Service{
		records: records,
		remote:  rs,
		now:     time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s.remote != nil
}

// Sync fetches the remote snapshot, merges it into the local collection with
// local records winning, persists the result and pushes it back.
func (s *Service) Sync(ctx context.Context) (*Result, error) {
	if !s.Enabled() {
		return nil, ErrSyncDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{SyncID: uuid.NewString()}
	log := slog.With("sync_id", res.SyncID)

	var remoteRecords []record.Record

	snap, err := s.remote.Fetch(ctx)

	switch {
	case err == nil:
		remoteRecords = snap.Records
	case errors.Is(err, remote.ErrNoSnapshot):
		log.Info("no remote snapshot yet")
	case errors.Is(err, remote.ErrCorruptSnapshot):
		log.Error("remote snapshot is corrupt, it will be overwritten by local records", "error", err)
		res.FetchErr = err
	default:
		log.Warn("fetching remote snapshot failed, treating remote as empty", "error", err)
		res.FetchErr = err
	}

	merged, err := s.records.Update(ctx, func(local []record.Record) []record.Record {
		res.Local = len(local)
		return reconcile.Records(local, remoteRecords)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting merged records: %w", err)
	}

	res.Remote = len(remoteRecords)
	res.Merged = len(merged)

	if err := s.push(ctx, merged, res); err != nil {
		return res, err
	}

	log.Info("sync complete", "local", res.Local, "remote", res.Remote, "merged", res.Merged)

	return res, nil
}

// Push uploads the local collection as is, overwriting the remote snapshot.
func (s *Service) Push(ctx context.Context) (*Result, error) {
	if !s.Enabled() {
		return nil, ErrSyncDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{SyncID: uuid.NewString()}

	local, err := s.records.All(ctx)
	if err != nil {
		return nil, err
	}

	res.Local = len(local)
	res.Merged = len(local)

	if err := s.push(ctx, local, res); err != nil {
		return res, err
	}

	slog.Info("pushed local records", "sync_id", res.SyncID, "count", res.Local)

	return res, nil
}

// Pull merges the remote snapshot into the local collection without pushing.
func (s *Service) Pull(ctx context.Context) (*Result, error) {
	if !s.Enabled() {
		return nil, ErrSyncDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{SyncID: uuid.NewString()}

	snap, err := s.remote.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching remote snapshot: %w", err)
	}

	merged, err := s.records.Update(ctx, func(local []record.Record) []record.Record {
		res.Local = len(local)
		return reconcile.Records(local, snap.Records)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting merged records: %w", err)
	}

	res.Remote = len(snap.Records)
	res.Merged = len(merged)
	res.SyncedAt = s.now()

	slog.Info("pulled remote records", "sync_id", res.SyncID, "remote", res.Remote, "merged", res.Merged)

	return res, nil
}

func (s *Service) push(ctx context.Context, records []record.Record, res *Result) error {
	categories, err := s.records.CustomCategories(ctx)
	if err != nil {
		return err
	}

	at := s.now().UTC()

	snap := &remote.Snapshot{
		Records:    records,
		Categories: categories,
		LastSync:   at,
	}
	if err := s.remote.Put(ctx, snap); err != nil {
		return fmt.Errorf("pushing snapshot: %w", err)
	}

	res.SyncedAt = at

	return nil
}
