package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rsilvagit/go-intern/internal/model"
)

// ResultWriter defines how listings and applications are presented.
type ResultWriter interface {
	WriteListings(ctx context.Context, listings []model.Listing) error
	WriteApplications(ctx context.Context, apps []model.Application) error
}

// ConsolePrinter writes results as aligned tables.
type ConsolePrinter struct {
	w io.Writer
}

// NewConsolePrinter prints to w, or stdout when w is nil.
func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsolePrinter{w: w}
}

func (cp *ConsolePrinter) WriteListings(_ context.Context, listings []model.Listing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(cp.w, "No internships found.")
		return err
	}

	w := tabwriter.NewWriter(cp.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tDURATION\tSTIPEND\tMATCH\tSTATUS\tPOSTED")
	fmt.Fprintln(w, "--\t-----\t-------\t--------\t-------\t-----\t------\t------")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.0f%% %s\t%s\t%s\n",
			shortID(l.ID), l.Title, l.Company, l.Duration, l.Stipend,
			l.MatchScore, l.MatchLevel, l.Status, l.PostedDate)
	}
	return w.Flush()
}

func (cp *ConsolePrinter) WriteApplications(_ context.Context, apps []model.Application) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(cp.w, "No applications yet.")
		return err
	}

	w := tabwriter.NewWriter(cp.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLISTING\tAPPLICANT\tEMAIL\tSKILLS\tAPPLIED\tSTATUS")
	fmt.Fprintln(w, "--\t-------\t---------\t-----\t------\t-------\t------")
	for _, a := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(a.ID), a.ListingTitle, a.Applicant.Name, a.Applicant.Email,
			strings.Join(a.Applicant.Skills, ", "), dateOnly(a.AppliedDate), a.Status)
	}
	return w.Flush()
}

// dateOnly trims an RFC 3339 timestamp to its date.
func dateOnly(ts string) string {
	if len(ts) > len(model.DateLayout) {
		return ts[:len(model.DateLayout)]
	}
	return ts
}

// shortID keeps tables narrow; any unique prefix is accepted back by the CLI.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
