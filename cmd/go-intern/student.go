package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsilvagit/go-intern/internal/filter"
)

var (
	listingsView     string
	listingsField    string
	listingsLocation string
	listingsWorkMode string
	listingsQuery    string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a full internship search for the signed-in student",
	Long: `Generate listings for the student's career fields, merge them with
recruiter postings that match the profile and replace the saved collection.
Listings already applied to keep their status.`,
	Args: cobra.NoArgs,
	RunE: run(runSearch),
}

var quickSearchCmd = &cobra.Command{
	Use:   "quick-search [field]",
	Short: "Narrow the saved listings to one career field",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run(runQuickSearch),
}

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Show the saved listings",
	Args:  cobra.NoArgs,
	RunE:  run(runListings),
}

var applyCmd = &cobra.Command{
	Use:   "apply <listing-id>",
	Short: "Apply to a listing",
	Long:  `Apply to a listing by id. Any unambiguous prefix of the id is accepted.`,
	Args:  cobra.ExactArgs(1),
	RunE:  run(runApply),
}

func init() {
	f := listingsCmd.Flags()
	f.StringVar(&listingsView, "view", "All", "View: All, Applied, Suggested or High Match")
	f.StringVar(&listingsField, "field", "", "Career field matched against the title")
	f.StringVar(&listingsLocation, "location", "", "Comma-separated locations")
	f.StringVar(&listingsWorkMode, "work-mode", "", "Comma-separated work modes (Remote, Hybrid, On-site)")
	f.StringVarP(&listingsQuery, "query", "q", "", "Comma-separated keywords matched against the whole listing")

	rootCmd.AddCommand(searchCmd, quickSearchCmd, listingsCmd, applyCmd)
}

func runSearch(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	listings, err := a.svc.Search(ctx, a.sess)
	if err != nil {
		return err
	}
	a.writeListings(ctx, listings)
	return nil
}

func runQuickSearch(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	field := "All"
	if len(args) == 1 {
		field = args[0]
	}
	listings, err := a.svc.QuickSearch(ctx, a.sess, field)
	if err != nil {
		return err
	}
	a.writeListings(ctx, listings)
	return nil
}

func runListings(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	view, err := filter.ParseView(listingsView)
	if err != nil {
		return err
	}
	a.writeListings(ctx, a.svc.Filter(a.sess, filter.Options{
		View:     view,
		Field:    listingsField,
		Location: listingsLocation,
		WorkMode: listingsWorkMode,
		Query:    listingsQuery,
	}))
	return nil
}

func runApply(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id := a.sess.ResolveListingID(args[0])
	applied, err := a.svc.Apply(ctx, a.sess, id)
	if err != nil {
		return err
	}
	if !applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to apply to for %q.\n", args[0])
	}
	return nil
}
