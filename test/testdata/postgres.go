package testdata

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const postgresImageTag = "16-alpine"

// MigrationSource points at the repository migrations regardless of which
// package the test runs in.
func MigrationSource() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..")
	return "file://" + filepath.ToSlash(filepath.Join(root, "internal", "database", "migrations"))
}

// SetupPostgres starts a disposable Postgres container, applies every
// migration and returns a pool connected to it. The container is purged when
// the test finishes. Tests calling it are skipped in -short mode.
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = 2 * time.Minute

	err = pool.Client.Ping()
	if err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        postgresImageTag,
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=password",
			"POSTGRES_DB=site",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(300)

	databaseURL := fmt.Sprintf("postgres://postgres:password@%s/site?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var db *pgxpool.Pool
	err = pool.Retry(func() error {
		var err error
		db, err = pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			return err
		}
		err = db.Ping(context.Background())
		if err != nil {
			db.Close()
		}
		return err
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	err = databaseutil.MigrationUp(MigrationSource(), databaseURL, zap.NewNop())
	require.NoError(t, err)

	return db
}
