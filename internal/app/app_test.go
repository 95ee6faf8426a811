package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/app"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.Driver = config.StoreMemory
	cfg.Remote.Backend = config.RemoteNone

	return cfg
}

func TestNew_Memory(t *testing.T) {
	a, err := app.New(context.Background(), newConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Sync.Enabled())

	rec, err := a.Capture.Capture(context.Background(), "美团外卖 ¥32")
	require.NoError(t, err)
	assert.Equal(t, "餐饮", rec.Category)
}

func TestNew_SQLiteWithRulesAndGist(t *testing.T) {
	dir := t.TempDir()

	rules := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("credit_bonus: 5\n"), 0o644))

	cfg := newConfig()
	cfg.Store.Driver = config.StoreSQLite
	cfg.Store.SQLitePath = filepath.Join(dir, "pocket.db")
	cfg.Classifier.RulesPath = rules
	cfg.Remote.Backend = config.RemoteGist
	cfg.Remote.GistToken = "t"
	cfg.Remote.GistAPIURL = "http://127.0.0.1:0"

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Sync.Enabled())

	d, err := a.Capture.Draft("支付 付款 消费 成功 +1元")
	require.NoError(t, err)
	assert.Equal(t, record.KindIncome, d.Kind)
}

func TestNew_MissingRules(t *testing.T) {
	cfg := newConfig()
	cfg.Classifier.RulesPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := app.New(context.Background(), cfg)
	assert.Error(t, err)
}
