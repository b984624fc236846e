package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rsilvagit/go-intern/internal/httpclient"
	"github.com/rsilvagit/go-intern/internal/model"
)

// Selectors locate posting fields inside a job-board page. Field selectors
// are relative to each card.
type Selectors struct {
	Card        string
	Title       string
	Company     string
	Location    string
	Type        string
	Duration    string
	Stipend     string
	Description string
	// Skills matches one element per skill; a single element holding a
	// comma-separated list also works.
	Skills string
}

// DefaultSelectors matches boards using the conventional internship-card
// markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:        ".internship-card",
		Title:       ".title",
		Company:     ".company",
		Location:    ".location",
		Type:        ".type",
		Duration:    ".duration",
		Stipend:     ".stipend",
		Description: ".description",
		Skills:      ".skills li, .skill",
	}
}

// Board imports postings from an HTML page.
type Board struct {
	client    *httpclient.Client
	selectors Selectors
}

// NewBoard returns a Board; client may be nil when only local files are read.
func NewBoard(client *httpclient.Client, selectors Selectors) *Board {
	return &Board{client: client, selectors: selectors}
}

// Fetch reads location, an http(s) URL or a file path, and parses it.
func (b *Board) Fetch(ctx context.Context, location string) ([]model.Posting, error) {
	var (
		data []byte
		err  error
	)

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if b.client == nil {
			return nil, fmt.Errorf("board: no HTTP client configured for %s", location)
		}
		data, err = b.client.Get(ctx, location)
	} else {
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("board: reading %s: %w", location, err)
	}

	return b.Parse(bytes.NewReader(data))
}

// Parse extracts one posting per card. Cards without a title are skipped.
func (b *Board) Parse(r io.Reader) ([]model.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("board: parsing HTML: %w", err)
	}

	sel := b.selectors
	var postings []model.Posting
	doc.Find(sel.Card).Each(func(_ int, s *goquery.Selection) {
		title := text(s, sel.Title)
		if title == "" {
			return
		}
		postings = append(postings, model.Posting{
			Title:       title,
			Company:     text(s, sel.Company),
			Location:    text(s, sel.Location),
			Type:        text(s, sel.Type),
			Duration:    text(s, sel.Duration),
			Stipend:     text(s, sel.Stipend),
			Description: text(s, sel.Description),
			Skills:      skills(s, sel.Skills),
		})
	})

	return postings, nil
}

func text(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.Join(strings.Fields(s.Find(selector).First().Text()), " ")
}

func skills(s *goquery.Selection, selector string) []string {
	if selector == "" {
		return nil
	}
	var out []string
	s.Find(selector).Each(func(_ int, el *goquery.Selection) {
		out = append(out, model.SplitSkills(el.Text())...)
	})
	return out
}
