package store

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "postedInternships_b@x.com", []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, "postedInternships_a@x.com", []byte(`[2]`)))
	require.NoError(t, s.Set(ctx, "currentUser", []byte(`{}`)))

	got, err := s.Get(ctx, "postedInternships_a@x.com")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(got))

	keys, err := s.Keys(ctx, "postedInternships_")
	require.NoError(t, err)
	assert.Equal(t, []string{"postedInternships_a@x.com", "postedInternships_b@x.com"}, keys)

	require.NoError(t, s.Set(ctx, "currentUser", []byte(`{"name":"x"}`)))
	got, err = s.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(got))

	require.NoError(t, s.Delete(ctx, "currentUser"))
	require.NoError(t, s.Delete(ctx, "currentUser"), "deleting twice is fine")
	_, err = s.Get(ctx, "currentUser")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")

	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFile(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "state.json"), nil)
	require.NoError(t, err)
	exerciseStore(t, f)
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	f, err := OpenFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "currentUser", []byte(`{"email":"s@x.com"}`)))

	reopened, err := OpenFile(path, nil)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"s@x.com"}`, string(got))
}

func TestFile_CorruptedDocumentMovedAside(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var logs bytes.Buffer
	f, err := OpenFile(path, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "discarding corrupted state file")

	keys, err := f.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	aside, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(aside))

	require.NoError(t, f.Set(ctx, "currentUser", []byte(`{}`)))
	aside, err = os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(aside))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Backend: BackendFile, Path: filepath.Join(t.TempDir(), "s.json")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(ctx, Options{Backend: "etcd"}, nil)
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: BackendFile}, nil)
	assert.Error(t, err)
}

func TestEscapes(t *testing.T) {
	assert.Equal(t, `applications\_a\%b`, escapeLike("applications_a%b"))
	assert.Equal(t, `a\*b\?`, escapeGlob("a*b?"))
	assert.Equal(t, "gointern:currentUser", buildKey("currentUser"))
}
