package match

import "github.com/rsilvagit/go-intern/internal/model"

// Scorer scores and labels listings for one set of thresholds.
type Scorer struct {
	thresholds Thresholds
}

// NewScorer returns a Scorer using t.
func NewScorer(t Thresholds) *Scorer {
	return &Scorer{thresholds: t}
}

// Thresholds returns the boundaries this scorer applies.
func (s *Scorer) Thresholds() Thresholds { return s.thresholds }

// Label returns a copy of l with its score and level computed for userSkills.
func (s *Scorer) Label(l model.Listing, userSkills []string) model.Listing {
	l.MatchScore = Score(userSkills, l.Skills)
	l.MatchLevel = s.thresholds.Classify(l.MatchScore)
	return l
}

// Merge builds the working listing collection: every generated listing,
// followed by the posted listings scoring strictly above ExternalMin. Both
// groups keep their input order and come back as Suggested. No deduplication
// is performed.
func (s *Scorer) Merge(generated, posted []model.Listing, userSkills []string) []model.Listing {
	out := make([]model.Listing, 0, len(generated)+len(posted))

	for _, l := range generated {
		l = s.Label(l, userSkills)
		l.Status = model.StatusSuggested
		l.Source = model.SourceGenerated
		out = append(out, l)
	}

	for _, l := range posted {
		l = s.Label(l, userSkills)
		if l.MatchScore <= s.thresholds.ExternalMin {
			continue
		}
		l.Status = model.StatusSuggested
		l.Source = model.SourceExternallyPosted
		out = append(out, l)
	}

	return out
}

// KeepApplied copies Status and AppliedDate from previous onto the listings
// of next with the same key whenever the earlier copy was already Applied.
// Applications are never withdrawn by a new search.
func KeepApplied(previous, next []model.Listing) []model.Listing {
	applied := make(map[string]model.Listing)
	for _, l := range previous {
		if l.Status == model.StatusApplied {
			applied[l.Key()] = l
		}
	}
	if len(applied) == 0 {
		return next
	}

	for i, l := range next {
		if prev, ok := applied[l.Key()]; ok {
			next[i].Status = prev.Status
			next[i].AppliedDate = prev.AppliedDate
		}
	}
	return next
}
