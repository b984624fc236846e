package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rsilvagit/go-intern/internal/filter"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_MergesPostedListings(t *testing.T) {
	f := newFixture(t, Options{})
	matching := f.post(t, "Communication", "Python")
	f.post(t, "Java")

	s := f.login(t, "student@test.com")
	listings := s.Listings()
	require.Len(t, listings, 13)

	last := listings[12]
	assert.Equal(t, matching.ID, last.ID)
	assert.Equal(t, model.SourceExternallyPosted, last.Source)
	assert.Equal(t, model.StatusSuggested, last.Status)
	assert.Equal(t, "recruiter@test.com", last.PostedBy)
	assert.InDelta(t, 33.33, last.MatchScore, 0.01)
	assert.Equal(t, model.MatchLow, last.MatchLevel)

	for _, l := range listings[:12] {
		assert.Equal(t, model.SourceGenerated, l.Source)
	}
}

func TestSearch_RequiresStudent(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Search(context.Background(), NewSession())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = f.svc.Search(context.Background(), f.login(t, "recruiter@test.com"))
	assert.ErrorIs(t, err, ErrNotStudent)
	assert.Equal(t, "Login Required", f.notes.last().title)
}

func TestSearch_SingleFlight(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.login(t, "student@test.com")
	f.svc.opts.SearchDelay = 200 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Search(context.Background(), s)
		done <- err
	}()

	require.Eventually(t, s.Searching, time.Second, 5*time.Millisecond)

	_, err := f.svc.Search(context.Background(), s)
	assert.ErrorIs(t, err, ErrSearchInProgress)
	_, err = f.svc.QuickSearch(context.Background(), s, "Art")
	assert.ErrorIs(t, err, ErrSearchInProgress)

	require.NoError(t, <-done)
	assert.False(t, s.Searching())

	_, err = f.svc.Search(context.Background(), s)
	assert.NoError(t, err)
}

func TestSearch_ContextCancelled(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.login(t, "student@test.com")
	before := s.Listings()
	f.svc.opts.SearchDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Search(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.Searching())
	assert.Equal(t, before, s.Listings())
}

func TestQuickSearch_KeepsCollection(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	s := f.login(t, "student@test.com")

	art, err := f.svc.QuickSearch(ctx, s, "art")
	require.NoError(t, err)
	require.Len(t, art, 2)
	for _, l := range art {
		assert.True(t, strings.HasPrefix(l.Title, "Art Intern"))
	}
	assert.Len(t, s.Listings(), 12)

	all, err := f.svc.QuickSearch(ctx, s, "All")
	require.NoError(t, err)
	assert.Len(t, all, 12)

	all, err = f.svc.QuickSearch(ctx, s, "")
	require.NoError(t, err)
	assert.Len(t, all, 12)

	none, err := f.svc.QuickSearch(ctx, s, "Astronomy")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestApply_PostedListingFilesApplicationOnce(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	posted := f.post(t, "Communication", "Teamwork")
	s := f.login(t, "student@test.com")

	ok, err := f.svc.Apply(ctx, s, posted.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	applied := filter.ByView(s.Listings(), filter.ViewApplied)
	require.Len(t, applied, 1)
	assert.Equal(t, posted.ID, applied[0].ID)
	assert.Equal(t, "2026-10-16", applied[0].AppliedDate)

	apps, err := f.state.Applications(ctx, "recruiter@test.com")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, model.ApplicationPending, apps[0].Status)
	assert.Equal(t, posted.ID, apps[0].ListingID)
	assert.Equal(t, "Data Intern", apps[0].ListingTitle)
	assert.Equal(t, "student@test.com", apps[0].Applicant.Email)
	assert.Equal(t, "2026-10-16T10:00:00Z", apps[0].AppliedDate)
	assert.Equal(t, "You have successfully applied to Data Intern at Tech Company Inc!", f.notes.last().message)

	ok, err = f.svc.Apply(ctx, s, posted.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	apps, err = f.state.Applications(ctx, "recruiter@test.com")
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	persisted, err := f.state.Internships(ctx, "student@test.com")
	require.NoError(t, err)
	assert.Equal(t, s.Listings(), persisted)
}

func TestApply_SurvivesNewSearch(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	posted := f.post(t, "Communication", "Teamwork")
	s := f.login(t, "student@test.com")

	ok, err := f.svc.Apply(ctx, s, posted.ID)
	require.NoError(t, err)
	require.True(t, ok)

	listings, err := f.svc.Search(ctx, s)
	require.NoError(t, err)
	applied := filter.ByView(listings, filter.ViewApplied)
	require.Len(t, applied, 1)
	assert.Equal(t, posted.ID, applied[0].ID)
	assert.Equal(t, "2026-10-16", applied[0].AppliedDate)

	ok, err = f.svc.Apply(ctx, s, posted.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// A fresh login reloads the saved collection and searches again.
	s = f.login(t, "student@test.com")
	assert.Len(t, f.svc.Listings(s, filter.ViewApplied), 1)
	ok, err = f.svc.Apply(ctx, s, posted.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	apps, err := f.state.Applications(ctx, "recruiter@test.com")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestApply_DuplicateApplicationNotFiled(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	posted := f.post(t, "Communication", "Teamwork")

	// Two independent sessions of the same student.
	a := f.login(t, "student@test.com")
	b := f.login(t, "student@test.com")

	ok, err := f.svc.Apply(ctx, a, posted.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.svc.Apply(ctx, b, posted.ID)
	require.NoError(t, err)
	require.True(t, ok)

	apps, err := f.state.Applications(ctx, "recruiter@test.com")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestApply_GeneratedListing(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	s := f.login(t, "student@test.com")
	id := s.Listings()[3].ID

	ok, err := f.svc.Apply(ctx, s, id)
	require.NoError(t, err)
	assert.True(t, ok)

	owners, err := f.state.ApplicationOwners(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)

	assert.Len(t, f.svc.Listings(s, filter.ViewApplied), 1)
	assert.Len(t, f.svc.Listings(s, filter.ViewSuggested), 11)
	assert.Len(t, f.svc.Listings(s, filter.ViewHighMatch), 12)
	assert.Len(t, f.svc.Listings(s, filter.ViewAll), 12)
}

func TestApply_UnknownIDIsNoop(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.login(t, "student@test.com")
	before := len(f.notes.titles())

	ok, err := f.svc.Apply(context.Background(), s, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, f.notes.titles(), before)
	assert.Empty(t, f.svc.Listings(s, filter.ViewApplied))
}

func TestApply_RequiresStudent(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Apply(context.Background(), f.login(t, "recruiter@test.com"), "x")
	assert.ErrorIs(t, err, ErrNotStudent)
}

func TestFilter(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.login(t, "student@test.com")

	got := f.svc.Filter(s, filter.Options{View: filter.ViewHighMatch, Field: "Science", WorkMode: "remote"})
	assert.Len(t, got, 2)

	got = f.svc.Filter(s, filter.Options{Location: "Lisbon, Porto"})
	assert.Empty(t, got)
}
