package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsilvagit/go-intern/internal/httpclient"
	"github.com/rsilvagit/go-intern/internal/lifecycle"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/source"
)

var (
	posting      model.Posting
	reviewStatus string
	importProxy  string
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post an internship as the signed-in recruiter",
	Args:  cobra.NoArgs,
	RunE:  run(runPost),
}

var importCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import internships from a job-board page",
	Long: `Parse the internship cards of an HTML page, read from a local file or
fetched over HTTP, and post every valid one. Cards without a company get the
recruiter's company.`,
	Args: cobra.ExactArgs(1),
	RunE: run(runImport),
}

var postingsCmd = &cobra.Command{
	Use:   "postings",
	Short: "List the internships posted by the signed-in recruiter",
	Args:  cobra.NoArgs,
	RunE:  run(runPostings),
}

var applicationsCmd = &cobra.Command{
	Use:   "applications [listing-id]",
	Short: "List applications received, optionally for one listing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run(runApplications),
}

var reviewCmd = &cobra.Command{
	Use:   "review <application-id>",
	Short: "Approve or reject a pending application",
	Long:  `Approve or reject a pending application. Any unambiguous prefix of the id is accepted.`,
	Args:  cobra.ExactArgs(1),
	RunE:  run(runReview),
}

func init() {
	f := postCmd.Flags()
	f.StringVar(&posting.Title, "title", "", "Internship title")
	f.StringVar(&posting.Company, "company", "", "Company (defaults to the recruiter's)")
	f.StringVar(&posting.Location, "location", "", "Location")
	f.StringVar(&posting.Type, "type", "", "Work mode: Remote, Hybrid or On-site")
	f.StringVar(&posting.Duration, "duration", "", "Duration, e.g. \"3 months\"")
	f.StringVar(&posting.Stipend, "stipend", "", "Stipend, e.g. \"$1500/month\"")
	f.StringVar(&posting.Description, "description", "", "Description")
	f.StringSliceVar(&posting.Skills, "skill", nil, "Required skill (repeatable)")

	importCmd.Flags().StringVar(&importProxy, "proxy", "", "HTTP proxy for fetching the page")

	reviewCmd.Flags().StringVar(&reviewStatus, "status", "", "Decision: approved or rejected")
	_ = reviewCmd.MarkFlagRequired("status")

	rootCmd.AddCommand(postCmd, importCmd, postingsCmd, applicationsCmd, reviewCmd)
}

func runPost(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	p := posting
	if p.Company == "" {
		if u := a.sess.User(); u != nil {
			p.Company = u.Company
		}
	}
	listing, err := a.svc.Post(ctx, a.sess, p)
	if err != nil {
		return err
	}
	a.writeListings(ctx, []model.Listing{listing})
	return nil
}

func runImport(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	client, err := httpclient.New(httpclient.Options{
		ProxyURL:    importProxy,
		MinInterval: a.cfg.Import.MinInterval,
		MaxRetries:  a.cfg.Import.MaxRetries,
		Timeout:     a.cfg.Import.Timeout,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}

	postings, err := source.NewBoard(client, source.DefaultSelectors()).Fetch(ctx, args[0])
	if err != nil {
		return err
	}
	created, err := a.svc.Import(ctx, a.sess, postings)
	if err != nil {
		return err
	}
	a.writeListings(ctx, created)
	return nil
}

func runPostings(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	listings, err := a.svc.Postings(a.sess)
	if err != nil {
		return err
	}
	a.writeListings(ctx, listings)
	return nil
}

func runApplications(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	var listingID string
	if len(args) == 1 {
		listingID = a.sess.ResolveListingID(args[0])
	}
	apps, err := a.svc.ApplicationsFor(ctx, a.sess, listingID)
	if err != nil {
		return err
	}
	a.writeApplications(ctx, apps)
	return nil
}

func runReview(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	decision, err := lifecycle.ParseApplicationStatus(reviewStatus)
	if err != nil {
		return err
	}

	// Load the recruiter's applications so the prefix resolves.
	if _, err := a.svc.ApplicationsFor(ctx, a.sess, ""); err != nil {
		return err
	}
	id := a.sess.ResolveApplicationID(args[0])

	updated, err := a.svc.Review(ctx, a.sess, id, decision)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Fprintf(cmd.OutOrStdout(), "No pending application %q.\n", args[0])
	}
	return nil
}
