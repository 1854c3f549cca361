package testdata

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const redisImageTag = "7-alpine"

// SetupRedis starts a disposable Redis container and returns a client
// connected to it. Tests calling it are skipped in -short mode.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = time.Minute

	err = pool.Client.Ping()
	if err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        redisImageTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(300)

	client := redis.NewClient(&redis.Options{
		Addr: resource.GetHostPort("6379/tcp"),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})

	err = pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	})
	require.NoError(t, err)

	return client
}
