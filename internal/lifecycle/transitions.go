// Package lifecycle defines the status graphs of listings and applications.
//
// Student side:
//
//	Suggested ──► Applied
//
// Recruiter side:
//
//	Pending ──► Approved
//	   │
//	   └──────► Rejected
//
// Applied, Approved and Rejected are terminal. Nothing moves back.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/rsilvagit/go-intern/internal/model"
)

var listingTransitions = map[model.ListingStatus][]model.ListingStatus{
	model.StatusSuggested: {model.StatusApplied},
	// Applied is terminal
}

var applicationTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationPending: {model.ApplicationApproved, model.ApplicationRejected},
	// Approved and Rejected are terminal
}

// ParseListingStatus converts a raw string to a ListingStatus.
func ParseListingStatus(s string) (model.ListingStatus, error) {
	st := model.ListingStatus(s)
	switch st {
	case model.StatusSuggested, model.StatusApplied:
		return st, nil
	}
	return "", fmt.Errorf("unknown listing status %q", s)
}

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// ignoring case and surrounding space.
func ParseApplicationStatus(s string) (model.ApplicationStatus, error) {
	for _, st := range []model.ApplicationStatus{model.ApplicationPending, model.ApplicationApproved, model.ApplicationRejected} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsListingTransitionAllowed reports whether from → to is permitted.
func IsListingTransitionAllowed(from, to model.ListingStatus) bool {
	for _, s := range listingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsApplicationTransitionAllowed reports whether from → to is permitted.
func IsApplicationTransitionAllowed(from, to model.ApplicationStatus) bool {
	for _, s := range applicationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanApply reports whether a student may apply to a listing in status s.
// An empty status is treated as Suggested.
func CanApply(s model.ListingStatus) bool {
	if s == "" {
		s = model.StatusSuggested
	}
	return IsListingTransitionAllowed(s, model.StatusApplied)
}

// CanReview reports whether an application in status s may be moved to decision.
func CanReview(s, decision model.ApplicationStatus) bool {
	return IsApplicationTransitionAllowed(s, decision)
}

// IsTerminal reports whether an application status has no outgoing transitions.
func IsTerminal(s model.ApplicationStatus) bool {
	return len(applicationTransitions[s]) == 0
}
