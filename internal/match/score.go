// Package match scores listings against a student's declared skills.
//
// The score is a loose keyword overlap: a user skill counts as matched when it
// is a substring of, or contains, any listing skill (case-insensitive). It is
// a heuristic, not a ranking model.
package match

import (
	"fmt"
	"strings"

	"github.com/rsilvagit/go-intern/internal/model"
)

// NeutralScore is returned when the user has declared no skills.
const NeutralScore = 50.0

// Thresholds holds the match-level boundaries and the minimum score an
// externally-posted listing needs to be suggested.
type Thresholds struct {
	High        float64 `yaml:"high" validate:"gte=0,lte=100"`
	Medium      float64 `yaml:"medium" validate:"gte=0,lte=100"`
	ExternalMin float64 `yaml:"external_min" validate:"gte=0,lte=100"`
}

// DefaultThresholds returns the stock 70/40/30 boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 70, Medium: 40, ExternalMin: 30}
}

// Validate checks the boundaries are ordered.
func (t Thresholds) Validate() error {
	if t.Medium > t.High {
		return fmt.Errorf("match: medium threshold %.2f above high threshold %.2f", t.Medium, t.High)
	}
	return nil
}

// Score returns the percentage of user skills matching at least one listing skill.
func Score(userSkills, listingSkills []string) float64 {
	if len(userSkills) == 0 {
		return NeutralScore
	}

	listing := make([]string, len(listingSkills))
	for i, s := range listingSkills {
		listing[i] = strings.ToLower(s)
	}

	matched := 0
	for _, s := range userSkills {
		if overlaps(strings.ToLower(s), listing) {
			matched++
		}
	}

	return float64(matched) / float64(max(len(userSkills), 1)) * 100
}

func overlaps(skill string, listingSkills []string) bool {
	for _, ls := range listingSkills {
		if strings.Contains(ls, skill) || strings.Contains(skill, ls) {
			return true
		}
	}
	return false
}

// Classify buckets a score. Boundary values belong to the higher bucket.
func (t Thresholds) Classify(score float64) model.MatchLevel {
	switch {
	case score >= t.High:
		return model.MatchHigh
	case score >= t.Medium:
		return model.MatchMedium
	default:
		return model.MatchLow
	}
}

// Classify buckets a score with the default thresholds.
func Classify(score float64) model.MatchLevel {
	return DefaultThresholds().Classify(score)
}
