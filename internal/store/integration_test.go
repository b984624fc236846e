//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIntegration_Redis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	r, err := NewRedis(context.Background(), url, time.Minute)
	require.NoError(t, err)
	defer r.Close()

	exerciseStore(t, r)
}

func TestIntegration_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	p, err := NewPostgres(ctx, url, nil)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.pool.Exec(ctx, `DELETE FROM kv_entries`)
	require.NoError(t, err)

	exerciseStore(t, p)
}
