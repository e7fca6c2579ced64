package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxRecommendations)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Database)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := &Config{
		Database:           "/tmp/test.db",
		Region:             "pnw",
		MaxRecommendations: 3,
		Logging:            LoggingConfig{Level: "debug", Format: "json"},
	}

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Database, got.Database)
	assert.Equal(t, "pnw", got.Region)
	assert.Equal(t, 3, got.MaxRecommendations)
	assert.Equal(t, "debug", got.Logging.Level)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults ok", cfg: Config{}},
		{name: "negative max recommendations", cfg: Config{MaxRecommendations: -1}, wantErr: true},
		{name: "bad logging format", cfg: Config{Logging: LoggingConfig{Format: "xml"}}, wantErr: true},
		{name: "missing factors file", cfg: Config{FactorsFile: "/does/not/exist.yaml"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
