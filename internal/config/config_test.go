package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ":9090", cfg.GRPC.Addr)
	assert.Equal(t, BackendStatic, cfg.Catalog.Backend)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Redis.FacetTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.yaml")
	content := `
catalog:
  backend: graphql
remote:
  endpoint: http://catalog.internal/graphql
  timeout: 3s
redis:
  addr: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendGraphQL, cfg.Catalog.Backend)
	assert.Equal(t, "http://catalog.internal/graphql", cfg.Remote.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, ":8080", cfg.HTTP.Addr, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("LISTING_HTTP_ADDR", ":9999")
	t.Setenv("LISTING_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr error
	}{
		{"static needs nothing", map[string]any{"catalog.backend": BackendStatic}, nil},
		{"spanner without database", map[string]any{"catalog.backend": BackendSpanner}, ErrMissingSpannerDatabase},
		{"spanner with database", map[string]any{
			"catalog.backend":  BackendSpanner,
			"spanner.database": "projects/p/instances/i/databases/d",
		}, nil},
		{"graphql without endpoint", map[string]any{"catalog.backend": BackendGraphQL}, ErrMissingGraphQLEndpoint},
		{"unknown backend", map[string]any{"catalog.backend": "mongo"}, ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}
			_, err := FromViper(v)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
