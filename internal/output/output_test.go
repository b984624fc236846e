package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListing(n int) model.Listing {
	return model.Listing{
		ID:         fmt.Sprintf("0123456789-%d", n),
		Title:      fmt.Sprintf("Engineering Intern %d", n),
		Company:    "Google",
		Location:   "Remote",
		Duration:   "3 months",
		Stipend:    "$1500/month",
		MatchScore: 75,
		MatchLevel: model.MatchHigh,
		Status:     model.StatusSuggested,
		PostedDate: "2026-10-10",
	}
}

func TestConsolePrinter_WriteListings(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsolePrinter(&buf)

	require.NoError(t, p.WriteListings(context.Background(), []model.Listing{sampleListing(1)}))

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "01234567 ")
	assert.Contains(t, out, "Engineering Intern 1")
	assert.Contains(t, out, "75% High")
}

func TestConsolePrinter_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsolePrinter(&buf)

	require.NoError(t, p.WriteListings(context.Background(), nil))
	require.NoError(t, p.WriteApplications(context.Background(), nil))
	assert.Equal(t, "No internships found.\nNo applications yet.\n", buf.String())
}

func TestConsolePrinter_WriteApplications(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsolePrinter(&buf)
	app := model.Application{
		ID:           "app-1",
		ListingTitle: "Art Intern",
		Applicant:    model.Applicant{Name: "Ana", Email: "ana@x.com", Skills: []string{"Drawing", "Teamwork"}},
		AppliedDate:  "2026-10-12T09:00:00Z",
		Status:       model.ApplicationPending,
	}

	require.NoError(t, p.WriteApplications(context.Background(), []model.Application{app}))
	assert.Contains(t, buf.String(), "Drawing, Teamwork")
	assert.Contains(t, buf.String(), "2026-10-12")
	assert.Contains(t, buf.String(), "Pending")
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleNotifier(&buf).Notify(context.Background(), "Search Complete", "Found 12 internships"))
	assert.Equal(t, "[Search Complete] Found 12 internships\n", buf.String())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	require.NoError(t, NewLogNotifier(logger).Notify(context.Background(), "Login Failed", "bad password"))
	assert.Contains(t, buf.String(), "title=\"Login Failed\"")
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, string, string) error { return f.err }

func TestMulti_AttemptsAll(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	m := Multi{failingNotifier{err: boom}, NewConsoleNotifier(&buf)}

	err := m.Notify(context.Background(), "T", "M")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "[T] M\n", buf.String())
}

func TestChunk(t *testing.T) {
	chunks := chunk("H\n", []string{"aaaa", "bbbb", "cccc"}, 8)
	assert.Equal(t, []string{"H\naaaa", "bbbbcccc"}, chunks)

	assert.Equal(t, []string{"H"}, chunk("H", nil, 10))
}

type recorder struct {
	mu     sync.Mutex
	bodies []map[string]string
	status int
}

func (r *recorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		var body map[string]string
		require.NoError(t, json.Unmarshal(data, &body))

		r.mu.Lock()
		r.bodies = append(r.bodies, body)
		r.mu.Unlock()

		if r.status != 0 {
			w.WriteHeader(r.status)
			_, _ = w.Write([]byte(`{"description":"bad request","message":"bad request"}`))
		}
	}
}

func TestTelegramWriter_ChunksListings(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(t))
	defer srv.Close()

	tw := NewTelegramWriter("tok", "42")
	tw.baseURL = srv.URL

	listings := make([]model.Listing, 60)
	for i := range listings {
		listings[i] = sampleListing(i)
	}
	require.NoError(t, tw.WriteListings(context.Background(), listings))

	require.Greater(t, len(rec.bodies), 1)
	for _, b := range rec.bodies {
		assert.Equal(t, "42", b["chat_id"])
		assert.Equal(t, "MarkdownV2", b["parse_mode"])
		assert.LessOrEqual(t, len(b["text"]), telegramLimit)
	}
	assert.True(t, strings.HasPrefix(rec.bodies[0]["text"], "*Found 60 internship\\(s\\):*"))
}

func TestTelegramWriter_NotifyError(t *testing.T) {
	rec := &recorder{status: http.StatusBadRequest}
	srv := httptest.NewServer(rec.handler(t))
	defer srv.Close()

	tw := NewTelegramWriter("tok", "42")
	tw.baseURL = srv.URL

	err := tw.Notify(context.Background(), "Application Submitted", "Applied to Art Intern.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad request")
	assert.Equal(t, "*Application Submitted*\nApplied to Art Intern\\.", rec.bodies[0]["text"])
}

func TestDiscordWriter(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(t))
	defer srv.Close()

	dw := NewDiscordWriter(srv.URL)
	require.NoError(t, dw.Notify(context.Background(), "Search Complete", "Found 12 internships"))
	require.NoError(t, dw.WriteListings(context.Background(), []model.Listing{sampleListing(1)}))

	require.Len(t, rec.bodies, 2)
	assert.Equal(t, "**Search Complete**\nFound 12 internships", rec.bodies[0]["content"])
	assert.Contains(t, rec.bodies[1]["content"], "> Match: 75% (High)")
}

func TestDiscordWriter_APIError(t *testing.T) {
	rec := &recorder{status: http.StatusNotFound}
	srv := httptest.NewServer(rec.handler(t))
	defer srv.Close()

	err := NewDiscordWriter(srv.URL).WriteApplications(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord: API error 404")
}
