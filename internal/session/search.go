package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rsilvagit/go-intern/internal/filter"
	"github.com/rsilvagit/go-intern/internal/lifecycle"
	"github.com/rsilvagit/go-intern/internal/match"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/source"
)

// Search rebuilds the student's working collection: synthesized listings for
// their career fields followed by the posted listings that match them well
// enough. Listings already applied to stay Applied. Only one search may run
// per session; a concurrent call gets
// ErrSearchInProgress instead of queueing.
func (svc *Service) Search(ctx context.Context, s *Session) ([]model.Listing, error) {
	u, err := requireUser(s, model.UserStudent)
	if err != nil {
		svc.notify(ctx, "Login Required", "Please log in as a student to search for internships.")
		return nil, err
	}

	if !s.searching.CompareAndSwap(false, true) {
		return nil, ErrSearchInProgress
	}
	defer s.searching.Store(false)

	if err := sleep(ctx, svc.opts.SearchDelay); err != nil {
		return nil, err
	}

	results, err := source.Collect(ctx, u, svc.generated, svc.posted)
	if err != nil {
		return nil, fmt.Errorf("collect listings: %w", err)
	}
	generated, posted := results[0], results[1]

	for i := range generated {
		generated[i].ID = uuid.NewString()
	}
	for i := range posted {
		if posted[i].ID == "" {
			posted[i].ID = uuid.NewString()
		}
	}

	merged := match.KeepApplied(s.Listings(), svc.scorer.Merge(generated, posted, u.Skills))

	s.mu.Lock()
	s.listings = merged
	s.mu.Unlock()

	if err := svc.state.SaveInternships(ctx, u.Email, merged); err != nil {
		return nil, err
	}

	svc.logger.InfoContext(ctx, "search complete",
		"user", u.Email, "generated", len(generated), "posted", len(posted), "total", len(merged))
	svc.notify(ctx, "Search Complete", fmt.Sprintf("Found %d internships matching your profile!", len(merged)))

	return slices.Clone(merged), nil
}

// QuickSearch narrows the current collection to listings whose title names
// field ("All" keeps everything). The collection itself is left intact.
func (svc *Service) QuickSearch(ctx context.Context, s *Session, field string) ([]model.Listing, error) {
	if _, err := requireUser(s, model.UserStudent); err != nil {
		svc.notify(ctx, "Login Required", "Please log in as a student to search for internships.")
		return nil, err
	}

	if !s.searching.CompareAndSwap(false, true) {
		return nil, ErrSearchInProgress
	}
	defer s.searching.Store(false)

	if err := sleep(ctx, svc.opts.QuickSearchDelay); err != nil {
		return nil, err
	}

	if field == "" {
		field = "All"
	}
	return filter.Apply(s.Listings(), filter.Options{Field: field}), nil
}

// Listings returns the working collection narrowed to view.
func (svc *Service) Listings(s *Session, view filter.View) []model.Listing {
	return filter.ByView(s.Listings(), view)
}

// Filter applies every filter criterion to the working collection.
func (svc *Service) Filter(s *Session, opts filter.Options) []model.Listing {
	return filter.Apply(s.Listings(), opts)
}

// Apply marks the listing Applied and, for recruiter-posted listings, files a
// Pending application with the recruiter. Unknown ids and listings already
// applied to are silent no-ops reported as false.
func (svc *Service) Apply(ctx context.Context, s *Session, id string) (bool, error) {
	u, err := requireUser(s, model.UserStudent)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.listings, func(l model.Listing) bool { return l.ID == id })
	if idx < 0 || !lifecycle.CanApply(s.listings[idx].Status) {
		s.mu.Unlock()
		return false, nil
	}

	now := svc.now()
	s.listings[idx].Status = model.StatusApplied
	s.listings[idx].AppliedDate = now.Format(model.DateLayout)
	listing := s.listings[idx]
	snapshot := slices.Clone(s.listings)
	s.mu.Unlock()

	if err := svc.state.SaveInternships(ctx, u.Email, snapshot); err != nil {
		return false, err
	}

	if listing.Source == model.SourceExternallyPosted && listing.PostedBy != "" {
		app := model.Application{
			ID:           uuid.NewString(),
			ListingID:    listing.ID,
			ListingTitle: listing.Title,
			Company:      listing.Company,
			Applicant: model.Applicant{
				Name:   u.Name,
				Email:  u.Email,
				Skills: u.Skills,
			},
			AppliedDate: now.UTC().Format(time.RFC3339),
			Status:      model.ApplicationPending,
		}
		if err := svc.fileApplication(ctx, listing.PostedBy, app); err != nil {
			return false, err
		}
	}

	svc.logger.InfoContext(ctx, "applied", "user", u.Email, "listing", listing.ID, "source", listing.Source)
	svc.notify(ctx, "Application Submitted",
		fmt.Sprintf("You have successfully applied to %s at %s!", listing.Title, listing.Company))
	return true, nil
}

func (svc *Service) fileApplication(ctx context.Context, recruiter string, app model.Application) error {
	svc.appsMu.Lock()
	defer svc.appsMu.Unlock()

	apps, err := svc.state.Applications(ctx, recruiter)
	if err != nil {
		return fmt.Errorf("load recruiter applications: %w", err)
	}
	if slices.ContainsFunc(apps, func(a model.Application) bool {
		return a.ListingID == app.ListingID && strings.EqualFold(a.Applicant.Email, app.Applicant.Email)
	}) {
		svc.logger.WarnContext(ctx, "application already filed", "listing", app.ListingID, "applicant", app.Applicant.Email)
		return nil
	}
	apps = append(apps, app)
	if err := svc.state.SaveApplications(ctx, recruiter, apps); err != nil {
		return fmt.Errorf("save recruiter applications: %w", err)
	}
	return nil
}
