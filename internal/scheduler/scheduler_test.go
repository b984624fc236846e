package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/output"
	"github.com/rsilvagit/go-intern/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func seed(t *testing.T) *store.State {
	t.Helper()
	ctx := context.Background()
	state := store.NewState(store.NewMemory(), discard)

	require.NoError(t, state.SaveApplications(ctx, "a@corp.com", []model.Application{
		{ID: "1", Status: model.ApplicationPending},
		{ID: "2", Status: model.ApplicationApproved},
		{ID: "3", Status: model.ApplicationPending},
	}))
	require.NoError(t, state.SaveApplications(ctx, "b@corp.com", []model.Application{
		{ID: "4", Status: model.ApplicationRejected},
	}))
	require.NoError(t, state.SaveApplications(ctx, "c@corp.com", []model.Application{
		{ID: "5", Status: model.ApplicationPending},
	}))
	return state
}

func TestRunOnce(t *testing.T) {
	var buf bytes.Buffer
	s := New(seed(t), output.NewConsoleNotifier(&buf), "@every 6h", discard)

	sent, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Reminder{{"a@corp.com", 2}, {"c@corp.com", 1}}, sent)
	assert.Equal(t,
		"[Pending Applications] a@corp.com: you have 2 application(s) waiting for review.\n"+
			"[Pending Applications] c@corp.com: you have 1 application(s) waiting for review.\n",
		buf.String())
}

type flaky struct{ calls int }

func (f *flaky) Notify(context.Context, string, string) error {
	f.calls++
	if f.calls == 1 {
		return errors.New("webhook down")
	}
	return nil
}

func TestRunOnce_NotifierFailureContinues(t *testing.T) {
	n := &flaky{}
	s := New(seed(t), n, "@every 6h", discard)

	sent, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Reminder{{"c@corp.com", 1}}, sent)
	assert.Equal(t, 2, n.calls)
}

func TestRunOnce_Empty(t *testing.T) {
	s := New(store.NewState(store.NewMemory(), discard), output.NewLogNotifier(discard), "@every 6h", discard)
	sent, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New(seed(t), output.NewLogNotifier(discard), "every now and then", discard)
	assert.Error(t, s.Start(context.Background()))
}

func TestStartStop(t *testing.T) {
	s := New(seed(t), output.NewLogNotifier(discard), "@every 1h", discard)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
