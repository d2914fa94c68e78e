package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spiral/internal/ir"
)

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "spiral.db", cfg.DB)
	assert.Equal(t, ir.Name("spiral"), cfg.Admin)
	assert.Empty(t, cfg.TrustedIssuers)
	assert.Empty(t, cfg.IssuerURL)
	assert.Equal(t, 10*time.Second, cfg.IssuerTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"SPIRAL_DB":              "/var/lib/spiral.db",
		"SPIRAL_ADMIN":           "root",
		"SPIRAL_TRUSTED_ISSUERS": "backend,relay.x",
		"SPIRAL_ISSUER_URL":      "http://tokens:8080",
		"SPIRAL_ISSUER_TOKEN":    "secret",
		"SPIRAL_ISSUER_TIMEOUT":  "250ms",
		"SPIRAL_LOG_LEVEL":       "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/spiral.db", cfg.DB)
	assert.Equal(t, ir.Name("root"), cfg.Admin)
	assert.Equal(t, []ir.Name{"backend", "relay.x"}, cfg.TrustedIssuers)
	assert.Equal(t, "http://tokens:8080", cfg.IssuerURL)
	assert.Equal(t, "secret", cfg.IssuerToken)
	assert.Equal(t, 250*time.Millisecond, cfg.IssuerTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad trusted issuer", map[string]string{"SPIRAL_TRUSTED_ISSUERS": "backend,Not Valid"}, "SPIRAL_TRUSTED_ISSUERS"},
		{"bad admin", map[string]string{"SPIRAL_ADMIN": "ADMIN!"}, "SPIRAL_ADMIN"},
		{"bad timeout", map[string]string{"SPIRAL_ISSUER_TIMEOUT": "soon"}, "parse env"},
		{"zero timeout", map[string]string{"SPIRAL_ISSUER_TIMEOUT": "0s"}, "SPIRAL_ISSUER_TIMEOUT"},
		{"bad level", map[string]string{"SPIRAL_LOG_LEVEL": "loud"}, "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.vars)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SPIRAL_DB=from-file.db\nSPIRAL_ADMIN=fileadmin\n"), 0o644))

	t.Setenv("SPIRAL_ADMIN", "envadmin")
	t.Cleanup(func() { os.Unsetenv("SPIRAL_DB") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DB)
	assert.Equal(t, ir.Name("envadmin"), cfg.Admin, "process environment wins")
}

func TestLoad_MissingDotenvIgnored(t *testing.T) {
	t.Setenv("SPIRAL_DB", "x.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "x.db", cfg.DB)
}
