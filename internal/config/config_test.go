package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, config.StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, config.RemoteNone, cfg.Remote.Backend)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad(t *testing.T) {
	type testCase struct {
		name    string
		env     map[string]string
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Gist",
			env:  map[string]string{"REMOTE_BACKEND": "gist", "GITHUB_TOKEN": "ghp_x"},
		},
		{
			name:    "GistWithoutToken",
			env:     map[string]string{"REMOTE_BACKEND": "gist"},
			wantErr: true,
		},
		{
			name:    "GCSWithoutBucket",
			env:     map[string]string{"REMOTE_BACKEND": "gcs"},
			wantErr: true,
		},
		{
			name:    "UnknownBackend",
			env:     map[string]string{"REMOTE_BACKEND": "dropbox"},
			wantErr: true,
		},
		{
			name:    "UnknownStore",
			env:     map[string]string{"STORE_DRIVER": "mysql"},
			wantErr: true,
		},
		{
			name: "Origins",
			env:  map[string]string{"CORS_ALLOWED_ORIGINS": "http://localhost:3000,https://pocket.example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}
