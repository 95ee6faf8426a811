// Package app wires the services shared by the api, tui and cli binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/MrJamesThe3rd/pocket/internal/capture"
	"github.com/MrJamesThe3rd/pocket/internal/classifier"
	"github.com/MrJamesThe3rd/pocket/internal/cloudsync"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	recordStore "github.com/MrJamesThe3rd/pocket/internal/record/store"
	"github.com/MrJamesThe3rd/pocket/internal/remote"
	"github.com/MrJamesThe3rd/pocket/internal/remote/gcs"
	"github.com/MrJamesThe3rd/pocket/internal/remote/gist"
)

type App struct {
	Config *config.Config

	Records *record.Service
	Capture *capture.Service
	Sync    *cloudsync.Service
	Export  *export.Service

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	c, err := loadClassifier(cfg.Classifier.RulesPath)
	if err != nil {
		a.Close()
		return nil, err
	}

	rs, err := a.openRemote(ctx, store)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Records = record.NewService(recordStore.New(store))
	a.Capture = capture.NewService(c, a.Records)
	a.Sync = cloudsync.NewService(a.Records, rs)
	a.Export = export.NewService(a.Records)

	return a, nil
}

func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context) (kv.Store, error) {
	cfg := a.Config

	var (
		driver  database.Driver
		dialect kv.Dialect
		dsn     string
	)

	switch cfg.Store.Driver {
	case config.StoreMemory:
		slog.Warn("using in-memory store, records will not survive a restart")
		return kv.NewMemory(), nil
	case config.StorePostgres:
		driver, dialect, dsn = database.DriverPostgres, kv.DialectPostgres, cfg.ConnectionString()
	case config.StoreSQLite:
		driver, dialect, dsn = database.DriverSQLite, kv.DialectSQLite, cfg.Store.SQLitePath
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	db, err := database.New(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a.closers = append(a.closers, db.Close)

	s := kv.NewSQLStore(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func loadClassifier(path string) (*classifier.Classifier, error) {
	if path == "" {
		return classifier.Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening classifier rules: %w", err)
	}
	defer f.Close()

	rules, err := classifier.LoadRules(f)
	if err != nil {
		return nil, err
	}

	return classifier.New(rules)
}

// openRemote returns nil when syncing is disabled.
func (a *App) openRemote(ctx context.Context, ids kv.Store) (remote.Store, error) {
	cfg := a.Config.Remote

	switch cfg.Backend {
	case config.RemoteGist:
		return gist.New(cfg.GistToken, ids,
			gist.WithBaseURL(cfg.GistAPIURL),
			gist.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		), nil
	case config.RemoteGCS:
		c, err := gcs.New(ctx, cfg.GCSBucket, cfg.GCSObject, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, c.Close)

		return c, nil
	default:
		return nil, nil
	}
}
