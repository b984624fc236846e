package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rsilvagit/go-intern/internal/auth"
	"github.com/rsilvagit/go-intern/internal/generator"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

type note struct{ title, message string }

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
	err   error
}

func (r *recordingNotifier) Notify(_ context.Context, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{title, message})
	return r.err
}

func (r *recordingNotifier) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.title
	}
	return out
}

func (r *recordingNotifier) last() note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notes[len(r.notes)-1]
}

type fixture struct {
	svc   *Service
	state *store.State
	notes *recordingNotifier
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return fixedNow }

	state := store.NewState(store.NewMemory(), logger)
	notes := &recordingNotifier{}
	svc := NewService(Deps{
		State:     state,
		Accounts:  auth.NewAccounts(state, bcrypt.MinCost),
		Tokens:    auth.NewTokens("test-secret-123", time.Hour),
		Generator: generator.New(generator.WithRand(rand.New(rand.NewPCG(1, 2))), generator.WithClock(clock)),
		Notifier:  notes,
		Clock:     clock,
		Logger:    logger,
	}, opts)

	return &fixture{svc: svc, state: state, notes: notes}
}

func (f *fixture) login(t *testing.T, email string) *Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, f.svc.Login(context.Background(), s, email, auth.DemoPassword))
	return s
}

func (f *fixture) post(t *testing.T, skills ...string) model.Listing {
	t.Helper()
	rs := f.login(t, "recruiter@test.com")
	l, err := f.svc.Post(context.Background(), rs, model.Posting{
		Title:   "Data Intern",
		Company: "Tech Company Inc",
		Skills:  skills,
	})
	require.NoError(t, err)
	return l
}

func TestLogin_DemoStudentRunsSearch(t *testing.T) {
	f := newFixture(t, Options{TrackCurrentUser: true})
	ctx := context.Background()

	s := f.login(t, "student@test.com")

	u := s.User()
	require.NotNil(t, u)
	assert.Equal(t, model.UserStudent, u.UserType)
	assert.NotEmpty(t, u.Token)

	listings := s.Listings()
	require.Len(t, listings, len(model.CareerFields)*generator.PerField)

	seen := map[string]bool{}
	for _, l := range listings {
		assert.Equal(t, model.StatusSuggested, l.Status)
		assert.Equal(t, model.SourceGenerated, l.Source)
		assert.Equal(t, 100.0, l.MatchScore)
		assert.Equal(t, model.MatchHigh, l.MatchLevel)
		assert.NotEmpty(t, l.ID)
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}

	persisted, err := f.state.Internships(ctx, "student@test.com")
	require.NoError(t, err)
	assert.Equal(t, listings, persisted)

	current, err := f.state.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "student@test.com", current.Email)

	assert.Equal(t, []string{"Login Successful", "Search Complete"}, f.notes.titles())
	assert.Equal(t, "Found 12 internships matching your profile!", f.notes.last().message)
}

func TestLogin_RecruiterSkipsSearch(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.login(t, "recruiter@test.com")

	assert.Empty(t, s.Listings())
	assert.Equal(t, []string{"Login Successful"}, f.notes.titles())
	assert.Equal(t, "Welcome to your recruiter dashboard!", f.notes.last().message)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t, Options{TrackCurrentUser: true})
	ctx := context.Background()
	s := NewSession()

	err := f.svc.Login(ctx, s, "student@test.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.False(t, s.LoggedIn())

	current, err := f.state.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	assert.Equal(t, []string{"Login Failed"}, f.notes.titles())
}

func TestSignup_Student(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	s := NewSession()

	err := f.svc.Signup(ctx, s, SignupRequest{
		Name:         "Ana",
		Email:        "Ana@Example.com",
		Password:     "secret1",
		UserType:     "student",
		Skills:       "Go, ,Teamwork",
		CareerFields: []string{"art", "Unknown", "Art"},
	})
	require.NoError(t, err)

	u := s.User()
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, []string{"Go", "Teamwork"}, u.Skills)
	assert.Equal(t, []model.CareerField{model.FieldArt}, u.CareerFields)

	listings := s.Listings()
	require.Len(t, listings, generator.PerField)
	for _, l := range listings {
		assert.True(t, strings.HasPrefix(l.Title, "Art Intern"))
		assert.Equal(t, 50.0, l.MatchScore)
		assert.Equal(t, model.MatchMedium, l.MatchLevel)
	}
	assert.Equal(t, []string{"Account Created", "Search Complete"}, f.notes.titles())

	again := NewSession()
	require.NoError(t, f.svc.Login(ctx, again, "ana@example.com", "secret1"))
	assert.Equal(t, "Ana", again.User().Name)
}

func TestSignup_Recruiter(t *testing.T) {
	f := newFixture(t, Options{})
	s := NewSession()

	err := f.svc.Signup(context.Background(), s, SignupRequest{
		Name:     "Rui",
		Email:    "rui@corp.com",
		Password: "secret1",
		UserType: "recruiter",
		Company:  "Corp",
		Skills:   "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Corp", s.User().Company)
	assert.Empty(t, s.User().Skills)
	assert.Equal(t, []string{"Account Created"}, f.notes.titles())
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t, Options{})
	base := SignupRequest{Name: "Rui", Email: "rui@corp.com", Password: "secret1", UserType: "recruiter", Company: "Corp"}

	tests := []struct {
		name   string
		mutate func(*SignupRequest)
		want   string
	}{
		{"missing company", func(r *SignupRequest) { r.Company = "" }, "company is required"},
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }, "email must be a valid email address"},
		{"short password", func(r *SignupRequest) { r.Password = "123" }, "password must be at least 6 characters"},
		{"bad type", func(r *SignupRequest) { r.UserType = "admin" }, "userType must be one of: student recruiter"},
		{"missing name", func(r *SignupRequest) { r.Name = "" }, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			s := NewSession()

			err := f.svc.Signup(context.Background(), s, req)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Msg)
			assert.False(t, s.LoggedIn())
		})
	}
}

func TestSignup_Duplicate(t *testing.T) {
	f := newFixture(t, Options{})
	req := SignupRequest{Name: "Rui", Email: "rui@corp.com", Password: "secret1", UserType: "recruiter", Company: "Corp"}

	require.NoError(t, f.svc.Signup(context.Background(), NewSession(), req))
	err := f.svc.Signup(context.Background(), NewSession(), req)
	assert.ErrorIs(t, err, auth.ErrAccountExists)
	assert.Equal(t, "Signup Failed", f.notes.last().title)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, Options{TrackCurrentUser: true})
	ctx := context.Background()
	s := f.login(t, "student@test.com")

	require.NoError(t, f.svc.Logout(ctx, s))
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Listings())

	current, err := f.state.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
	assert.Equal(t, "Logged Out", f.notes.last().title)
}

func TestRestore(t *testing.T) {
	f := newFixture(t, Options{TrackCurrentUser: true})
	ctx := context.Background()
	s := f.login(t, "student@test.com")

	restored, err := f.svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.User(), restored.User())
	assert.Equal(t, s.Listings(), restored.Listings())
}

func TestRestore_CorruptedCurrentUser(t *testing.T) {
	f := newFixture(t, Options{TrackCurrentUser: true})
	ctx := context.Background()
	require.NoError(t, f.state.Store().Set(ctx, store.KeyCurrentUser, []byte("{not json")))

	s, err := f.svc.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())

	_, err = f.state.Store().Get(ctx, store.KeyCurrentUser)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRestore_Anonymous(t *testing.T) {
	f := newFixture(t, Options{TrackCurrentUser: true})
	s, err := f.svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s.User())
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	s := f.login(t, "recruiter@test.com")

	u, err := f.svc.Authenticate(ctx, s.User().Token)
	require.NoError(t, err)
	assert.Equal(t, "recruiter@test.com", u.Email)

	_, err = f.svc.Authenticate(ctx, "bogus")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNotifierFailureDoesNotFailAction(t *testing.T) {
	f := newFixture(t, Options{})
	f.notes.err = errors.New("telegram down")

	s := NewSession()
	require.NoError(t, f.svc.Login(context.Background(), s, "student@test.com", auth.DemoPassword))
	assert.Len(t, s.Listings(), 12)
}

func TestResolveListingID(t *testing.T) {
	s := NewSession()
	s.listings = []model.Listing{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz"}}

	assert.Equal(t, "abc123", s.ResolveListingID("abc"))
	assert.Equal(t, "ab", s.ResolveListingID("ab"))
	assert.Equal(t, "xyz", s.ResolveListingID("xyz"))
	assert.Equal(t, "nope", s.ResolveListingID("nope"))
	assert.Equal(t, "", s.ResolveListingID(""))
}
