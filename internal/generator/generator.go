// Package generator synthesizes internship listings for the fixed career fields.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rsilvagit/go-intern/internal/model"
)

// PerField is the number of listings produced for each career field.
const PerField = 2

const (
	minDurationMonths = 2
	maxDurationMonths = 4
	minStipend        = 1000
	maxStipend        = 3000
	postedWindow      = 7 * 24 * time.Hour
)

// Companies is the roster generated listings pick from.
var Companies = []string{"Google", "Microsoft", "Amazon", "Meta", "Netflix", "Tech Startup", "Innovation Labs"}

// BaseSkills is attached to every generated listing regardless of field.
var BaseSkills = []string{"Communication", "Teamwork", "Willingness to Learn", "Basic Computer Skills"}

// Generator produces synthetic listings. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRand sets the random source, mainly for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock sets the time source used for posted dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a Generator seeded from the runtime's random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns PerField listings for each requested field, in the
// canonical field order. An empty fields set means every field. Unknown
// fields are ignored. Listings come back without ids; callers assign them.
func (g *Generator) Generate(fields []model.CareerField) []model.Listing {
	g.mu.Lock()
	defer g.mu.Unlock()

	var listings []model.Listing
	for _, field := range selectFields(fields) {
		for range PerField {
			listings = append(listings, g.listing(field))
		}
	}
	return listings
}

func (g *Generator) listing(field model.CareerField) model.Listing {
	duration := minDurationMonths + g.rng.IntN(maxDurationMonths-minDurationMonths+1)
	stipend := minStipend + g.rng.IntN(maxStipend-minStipend+1)
	posted := g.now().Add(-time.Duration(g.rng.Int64N(int64(postedWindow))))

	skills := make([]string, len(BaseSkills))
	copy(skills, BaseSkills)

	return model.Listing{
		Title:    fmt.Sprintf("%s Intern - No Experience Required", field),
		Company:  Companies[g.rng.IntN(len(Companies))],
		Location: "Remote",
		Type:     "Remote",
		Duration: fmt.Sprintf("%d months", duration),
		Stipend:  fmt.Sprintf("$%d/month", stipend),
		Description: fmt.Sprintf("Perfect for beginners interested in %s. Learn practical skills and gain real-world experience. No prior experience required.",
			strings.ToLower(string(field))),
		Skills:             skills,
		ExperienceRequired: "No experience required",
		PostedDate:         posted.Format(model.DateLayout),
	}
}

func selectFields(fields []model.CareerField) []model.CareerField {
	if len(fields) == 0 {
		return model.CareerFields
	}
	want := make(map[model.CareerField]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}
	var out []model.CareerField
	for _, f := range model.CareerFields {
		if want[f] {
			out = append(out, f)
		}
	}
	return out
}
