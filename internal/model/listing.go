package model

import "strings"

// DateLayout is the day-granularity format used for posted and applied dates.
const DateLayout = "2006-01-02"

// ListingStatus is the lifecycle status of a listing from a student's point of view.
type ListingStatus string

const (
	StatusSuggested ListingStatus = "Suggested"
	StatusApplied   ListingStatus = "Applied"
)

// ListingSource records where a listing came from.
type ListingSource string

const (
	SourceGenerated        ListingSource = "generated"
	SourceExternallyPosted ListingSource = "externally-posted"
)

// MatchLevel is the coarse bucket derived from a match score.
type MatchLevel string

const (
	MatchLow    MatchLevel = "Low"
	MatchMedium MatchLevel = "Medium"
	MatchHigh   MatchLevel = "High"
)

// Listing represents a single internship posting, synthetic or recruiter-submitted.
type Listing struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Company            string        `json:"company"`
	Location           string        `json:"location"`
	Type               string        `json:"type"`     // Remote, Hybrid, On-site
	Duration           string        `json:"duration"` // ex: "3 months"
	Stipend            string        `json:"stipend"`  // ex: "$1500/month"
	Description        string        `json:"description"`
	Skills             []string      `json:"skills"`
	ExperienceRequired string        `json:"experienceRequired"`
	PostedDate         string        `json:"postedDate"`
	AppliedDate        string        `json:"appliedDate,omitempty"`
	Status             ListingStatus `json:"status,omitempty"`
	Source             ListingSource `json:"source,omitempty"`
	MatchScore         float64       `json:"matchScore"`
	MatchLevel         MatchLevel    `json:"matchLevel,omitempty"`
	PostedBy           string        `json:"postedBy,omitempty"`
}

// FullText is the lowercased text a keyword search looks at: title,
// company, location, work mode, description and skills.
func (l Listing) FullText() string {
	parts := append([]string{l.Title, l.Company, l.Location, l.Type, l.Description}, l.Skills...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Key returns a human-oriented identity for this listing.
// Uses the id when available, otherwise falls back to title+company.
func (l Listing) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return strings.ToLower(l.Title + "|" + l.Company)
}
