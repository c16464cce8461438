package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/inovacc/wavelink/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blobFactory func(t *testing.T) Blob

func backends(t *testing.T) map[string]blobFactory {
	t.Helper()

	factories := map[string]blobFactory{
		"memory": func(t *testing.T) Blob { return NewMemory() },
		"bolt": func(t *testing.T) Blob {
			db, err := NewBolt(filepath.Join(t.TempDir(), "test.bolt"))
			require.NoError(t, err)

			return db
		},
		"sqlite": func(t *testing.T) Blob {
			db, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)

			return db
		},
	}

	if dsn := os.Getenv("WAVELINK_TEST_POSTGRES_DSN"); dsn != "" {
		factories["postgres"] = func(t *testing.T) Blob {
			db, err := NewPostgres(context.Background(), dsn)
			require.NoError(t, err)

			_ = db.Delete(context.Background(), t.Name())

			return db
		}
	}

	return factories
}

func setupTestBlob(t *testing.T, factory blobFactory) (Blob, func()) {
	t.Helper()

	db := factory(t)

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	}

	return db, cleanup
}

func TestBlob_Contract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range backends(t) {
		t.Run(name, func(t *testing.T) {
			db, cleanup := setupTestBlob(t, factory)
			defer cleanup()

			key := t.Name()

			require.NoError(t, db.Ping(ctx))

			_, err := db.Get(ctx, key)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, db.Put(ctx, key, []byte("one")))

			got, err := db.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte("one"), got)

			require.NoError(t, db.Put(ctx, key, []byte("two")))

			got, err = db.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte("two"), got)

			require.NoError(t, db.Delete(ctx, key))
			require.NoError(t, db.Delete(ctx, key), "deleting an absent key")

			_, err = db.Get(ctx, key)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBolt_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "wavelink.bolt")

	db, err := NewBolt(path)
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, "students", []byte(`[]`)))
	require.NoError(t, db.Close())

	db, err = NewBolt(path)
	require.NoError(t, err)

	defer func() { _ = db.Close() }()

	got, err := db.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestSQLite_Migrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavelink.db")

	db, err := NewSQLite(path)
	require.NoError(t, err)

	m := NewMigrator(db.db)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create kv", migrations[0].Description)
	assert.NotEmpty(t, migrations[0].DownSQL)

	version, err := m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, version)

	pending, err := m.PendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, db.Close())

	db, err = NewSQLite(path)
	require.NoError(t, err, "reopening applies nothing twice")
	require.NoError(t, db.Close())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"bolt", config.Config{Store: config.StoreConfig{Backend: config.BackendBolt, Path: filepath.Join(dir, "a.bolt")}}, false},
		{"sqlite", config.Config{Store: config.StoreConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "a.db")}}, false},
		{"memory", config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}, false},
		{"postgres without dsn", config.Config{Store: config.StoreConfig{Backend: config.BackendPostgres}}, true},
		{"unknown", config.Config{Store: config.StoreConfig{Backend: "etcd"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Open(ctx, &tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NoError(t, blob.Ping(ctx))
			require.NoError(t, blob.Close())
		})
	}
}
