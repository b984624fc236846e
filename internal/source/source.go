// Package source supplies the raw listings a search merges: synthesized ones
// and those recruiters posted, plus postings imported from job-board pages.
package source

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rsilvagit/go-intern/internal/generator"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/store"
)

// Source defines the contract every listing supplier must satisfy.
type Source interface {
	// Name returns a human-readable identifier for this source.
	Name() string

	// Listings returns the unscored listings available to user.
	Listings(ctx context.Context, user *model.User) ([]model.Listing, error)
}

// Collect queries every source concurrently. Results are indexed like
// sources; the first failure cancels the rest.
func Collect(ctx context.Context, user *model.User, sources ...Source) ([][]model.Listing, error) {
	results := make([][]model.Listing, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			listings, err := src.Listings(gctx, user)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			results[i] = listings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Generated synthesizes listings for the user's career fields.
type Generated struct {
	gen *generator.Generator
}

func NewGenerated(gen *generator.Generator) *Generated {
	return &Generated{gen: gen}
}

func (g *Generated) Name() string { return "generated" }

func (g *Generated) Listings(_ context.Context, user *model.User) ([]model.Listing, error) {
	var fields []model.CareerField
	if user != nil {
		fields = user.CareerFields
	}
	return g.gen.Generate(fields), nil
}

// Posted returns every recruiter's posted listings.
type Posted struct {
	state *store.State
}

func NewPosted(state *store.State) *Posted {
	return &Posted{state: state}
}

func (p *Posted) Name() string { return "posted" }

func (p *Posted) Listings(ctx context.Context, _ *model.User) ([]model.Listing, error) {
	return p.state.AllPosted(ctx)
}
