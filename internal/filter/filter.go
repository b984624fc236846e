package filter

import (
	"fmt"
	"strings"

	"github.com/rsilvagit/go-intern/internal/model"
)

// View is one of the dashboard views over the working listing collection.
type View string

const (
	ViewAll       View = "All"
	ViewApplied   View = "Applied"
	ViewSuggested View = "Suggested"
	ViewHighMatch View = "High Match"
)

// ParseView accepts the view names case-insensitively. Empty means All.
func ParseView(s string) (View, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ViewAll, nil
	}
	for _, v := range []View{ViewAll, ViewApplied, ViewSuggested, ViewHighMatch} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Options holds all filter criteria. Empty fields mean "no filter".
type Options struct {
	View     View
	Field    string // career field matched against the title; "All" is a passthrough
	Location string // comma-separated alternatives matched against the location
	WorkMode string // comma-separated alternatives matched against the listing type
	Query    string // comma-separated keywords matched against the full listing text
}

// ByView narrows listings to a dashboard view, preserving order.
func ByView(listings []model.Listing, view View) []model.Listing {
	if view == "" || view == ViewAll {
		return listings
	}

	result := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if matchView(l, view) {
			result = append(result, l)
		}
	}
	return result
}

func matchView(l model.Listing, view View) bool {
	switch view {
	case ViewApplied:
		return l.Status == model.StatusApplied
	case ViewSuggested:
		return l.Status == model.StatusSuggested
	case ViewHighMatch:
		return l.MatchLevel == model.MatchHigh
	}
	return true
}

// Apply filters a slice of listings, returning only those that match all criteria.
func Apply(listings []model.Listing, opts Options) []model.Listing {
	listings = ByView(listings, opts.View)
	if opts.isEmpty() {
		return listings
	}

	result := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if matchListing(l, opts) {
			result = append(result, l)
		}
	}
	return result
}

func matchListing(l model.Listing, opts Options) bool {
	if opts.Field != "" && !strings.EqualFold(opts.Field, "All") &&
		!strings.Contains(strings.ToLower(l.Title), strings.ToLower(strings.TrimSpace(opts.Field))) {
		return false
	}
	if opts.Location != "" && !containsAny(strings.ToLower(l.Location), opts.Location) {
		return false
	}
	if opts.WorkMode != "" && !containsAny(strings.ToLower(l.Type), opts.WorkMode) {
		return false
	}
	if opts.Query != "" && !containsAny(l.FullText(), opts.Query) {
		return false
	}
	return true
}

// containsAny checks if text contains any of the comma-separated terms.
func containsAny(text, terms string) bool {
	for _, term := range strings.Split(terms, ",") {
		term = strings.TrimSpace(strings.ToLower(term))
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func (o Options) isEmpty() bool {
	return o.Field == "" && o.Location == "" && o.WorkMode == "" && o.Query == ""
}
