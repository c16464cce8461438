package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T) (string, func() (*Config, error)) {
	t.Helper()

	dir := t.TempDir()
	v := New()
	v.Set(KeyDataDir, dir)

	return dir, func() (*Config, error) { return Load(v, "") }
}

func TestLoad_Defaults(t *testing.T) {
	dir, load := newTestViper(t)

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, BackendBolt, cfg.Store.Backend)
	assert.Equal(t, DefaultSlot, cfg.Store.Slot)
	assert.Equal(t, filepath.Join(dir, "wavelink.bolt"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(dir, "attachments"), cfg.Attachments.Dir)
	assert.Equal(t, ".m4a", cfg.Attachments.Extension)
	assert.Equal(t, "students.txt", cfg.Export.FileName)
	assert.False(t, cfg.Export.Strict)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")

	content := `store:
  backend: sqlite
export:
  strict: true
attachments:
  extension: wav
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	v := New()
	v.Set(KeyDataDir, dir)

	cfg, err := Load(v, file)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "wavelink.db"), cfg.Store.Path)
	assert.True(t, cfg.Export.Strict)
	assert.Equal(t, ".wav", cfg.Attachments.Extension)
	assert.Equal(t, file, cfg.File)
}

func TestLoad_DiscoversConfigInDataDir(t *testing.T) {
	dir, load := newTestViper(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store:\n  slot: lab\n"), 0600))

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "lab", cfg.Store.Slot)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WAVELINK_STORE_BACKEND", "memory")
	t.Setenv("WAVELINK_LOG_LEVEL", "debug")

	_, load := newTestViper(t)

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"WAVELINK_STORE_BACKEND": "redis"}},
		{name: "postgres without dsn", env: map[string]string{"WAVELINK_STORE_BACKEND": "postgres"}},
		{name: "export path", env: map[string]string{"WAVELINK_EXPORT_FILE_NAME": "../out.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, load := newTestViper(t)

			_, err := load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v := New()
	v.Set(KeyDataDir, t.TempDir())

	_, err := Load(v, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("backend", "", "")
	require.NoError(t, fs.Parse([]string{"--backend", "memory"}))

	v := New()
	v.Set(KeyDataDir, t.TempDir())

	require.NoError(t, BindFlags(v, fs, map[string]string{
		"backend": KeyStoreBackend,
		"missing": KeyLogLevel,
	}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}
