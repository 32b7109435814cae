package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulus-lang/modulus/internal/universe"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "concrete", cfg.Mode)
	assert.Equal(t, "-", cfg.Output.Path)
	assert.Equal(t, 4, cfg.Loader.Jobs)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: constraints
output:
  path: out.dk
loader:
  jobs: 8
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "constraints", cfg.Mode)
	assert.Equal(t, "out.dk", cfg.Output.Path)
	assert.Equal(t, 8, cfg.Loader.Jobs)
	assert.Equal(t, "debug", cfg.Logging.Level)

	mode, err := cfg.UniverseMode()
	require.NoError(t, err)
	assert.Equal(t, universe.Constraints, mode)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MODC_OUTPUT", "/tmp/override.dk")
	t.Setenv("MODC_MODE", "named")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.dk", cfg.Output.Path)
	assert.Equal(t, "named", cfg.Mode)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown mode", "mode: symbolic\n"},
		{"negative jobs", "loader:\n  jobs: -1\n"},
		{"unknown log level", "logging:\n  level: verbose\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "modc.yaml")
			require.NoError(t, os.WriteFile(path, []byte(c.body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "modc.yaml")
	cfg := DefaultConfig()
	cfg.Mode = "named"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
