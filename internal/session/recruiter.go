package session

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/rsilvagit/go-intern/internal/lifecycle"
	"github.com/rsilvagit/go-intern/internal/model"
)

const noExperience = "No experience required"

// Post publishes a new internship. It is prepended to the recruiter's
// posted list and becomes visible to the next student search.
func (svc *Service) Post(ctx context.Context, s *Session, p model.Posting) (model.Listing, error) {
	u, err := requireUser(s, model.UserRecruiter)
	if err != nil {
		return model.Listing{}, err
	}
	p = normalizePosting(p)
	if err := svc.validate.Struct(p); err != nil {
		return model.Listing{}, newValidationError(err)
	}

	listing := svc.newPosting(u, p)
	if err := svc.prependPosted(ctx, s, u.Email, listing); err != nil {
		return model.Listing{}, err
	}

	svc.notify(ctx, "Internship Posted", "Your internship has been posted successfully! Students can now view and apply to it.")
	return listing, nil
}

// Import posts every valid posting in order, skipping invalid ones. It
// returns the listings created.
func (svc *Service) Import(ctx context.Context, s *Session, postings []model.Posting) ([]model.Listing, error) {
	u, err := requireUser(s, model.UserRecruiter)
	if err != nil {
		return nil, err
	}

	var created []model.Listing
	for _, p := range postings {
		p = normalizePosting(p)
		if p.Company == "" {
			p.Company = u.Company
		}
		if err := svc.validate.Struct(p); err != nil {
			svc.logger.WarnContext(ctx, "skipping invalid posting", "title", p.Title, "err", newValidationError(err))
			continue
		}
		listing := svc.newPosting(u, p)
		if err := svc.prependPosted(ctx, s, u.Email, listing); err != nil {
			return created, err
		}
		created = append(created, listing)
	}

	svc.notify(ctx, "Internships Imported",
		fmt.Sprintf("Imported %d of %d internships from the board.", len(created), len(postings)))
	return created, nil
}

// normalizePosting trims every field and drops blank skills.
func normalizePosting(p model.Posting) model.Posting {
	skills := make([]string, 0, len(p.Skills))
	for _, sk := range p.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	p.Skills = skills
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)
	p.Type = strings.TrimSpace(p.Type)
	p.Duration = strings.TrimSpace(p.Duration)
	p.Stipend = strings.TrimSpace(p.Stipend)
	p.Description = strings.TrimSpace(p.Description)
	return p
}

func (svc *Service) newPosting(u *model.User, p model.Posting) model.Listing {
	return model.Listing{
		ID:                 uuid.NewString(),
		Title:              p.Title,
		Company:            p.Company,
		Location:           p.Location,
		Type:               p.Type,
		Duration:           p.Duration,
		Stipend:            p.Stipend,
		Description:        p.Description,
		Skills:             p.Skills,
		ExperienceRequired: noExperience,
		PostedDate:         svc.now().Format(model.DateLayout),
		Source:             model.SourceExternallyPosted,
		PostedBy:           u.Email,
	}
}

func (svc *Service) prependPosted(ctx context.Context, s *Session, email string, l model.Listing) error {
	s.mu.Lock()
	s.posted = append([]model.Listing{l}, s.posted...)
	snapshot := slices.Clone(s.posted)
	s.mu.Unlock()

	if err := svc.state.SavePosted(ctx, email, snapshot); err != nil {
		return fmt.Errorf("save posted internships: %w", err)
	}
	return nil
}

// Postings returns the recruiter's posted listings, newest first.
func (svc *Service) Postings(s *Session) ([]model.Listing, error) {
	if _, err := requireUser(s, model.UserRecruiter); err != nil {
		return nil, err
	}
	return s.Posted(), nil
}

// ApplicationsFor returns the applications received for one posted listing,
// or for every listing when listingID is empty. Applications are re-read
// from the store since students file them from other sessions.
func (svc *Service) ApplicationsFor(ctx context.Context, s *Session, listingID string) ([]model.Application, error) {
	u, err := requireUser(s, model.UserRecruiter)
	if err != nil {
		return nil, err
	}

	apps, err := svc.state.Applications(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	s.mu.Lock()
	s.applications = apps
	s.mu.Unlock()

	if listingID == "" {
		return slices.Clone(apps), nil
	}
	out := make([]model.Application, 0, len(apps))
	for _, a := range apps {
		if a.ListingID == listingID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Review moves a Pending application to Approved or Rejected. Unknown ids
// and already decided applications are silent no-ops reported as false.
func (svc *Service) Review(ctx context.Context, s *Session, appID string, decision model.ApplicationStatus) (bool, error) {
	u, err := requireUser(s, model.UserRecruiter)
	if err != nil {
		return false, err
	}
	if decision != model.ApplicationApproved && decision != model.ApplicationRejected {
		return false, &ValidationError{Msg: fmt.Sprintf("decision must be %s or %s", model.ApplicationApproved, model.ApplicationRejected)}
	}

	svc.appsMu.Lock()
	defer svc.appsMu.Unlock()

	apps, err := svc.state.Applications(ctx, u.Email)
	if err != nil {
		return false, fmt.Errorf("load applications: %w", err)
	}

	idx := slices.IndexFunc(apps, func(a model.Application) bool { return a.ID == appID })
	if idx < 0 || !lifecycle.CanReview(apps[idx].Status, decision) {
		s.mu.Lock()
		s.applications = apps
		s.mu.Unlock()
		return false, nil
	}

	apps[idx].Status = decision
	if err := svc.state.SaveApplications(ctx, u.Email, apps); err != nil {
		return false, fmt.Errorf("save applications: %w", err)
	}

	s.mu.Lock()
	s.applications = apps
	s.mu.Unlock()

	svc.logger.InfoContext(ctx, "application reviewed", "recruiter", u.Email, "application", appID, "status", decision)
	svc.notify(ctx, "Status Updated", fmt.Sprintf("Application has been %s.", strings.ToLower(string(decision))))
	return true, nil
}
