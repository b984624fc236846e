package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/go-intern/internal/model"
)

// Discord rejects messages over 2000 characters.
const discordLimit = 1900

// DiscordWriter sends results and notifications to a channel via webhook.
type DiscordWriter struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordWriter(webhookURL string) *DiscordWriter {
	return &DiscordWriter{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (dw *DiscordWriter) WriteListings(ctx context.Context, listings []model.Listing) error {
	if len(listings) == 0 {
		return dw.send(ctx, "No internships found.")
	}

	entries := make([]string, len(listings))
	for i, l := range listings {
		entries[i] = formatDiscordListing(i+1, l)
	}
	header := fmt.Sprintf("**Found %d internship(s):**\n\n", len(listings))
	return dw.sendAll(ctx, chunk(header, entries, discordLimit))
}

func (dw *DiscordWriter) WriteApplications(ctx context.Context, apps []model.Application) error {
	if len(apps) == 0 {
		return dw.send(ctx, "No applications yet.")
	}

	entries := make([]string, len(apps))
	for i, a := range apps {
		var b strings.Builder
		fmt.Fprintf(&b, "**%d. %s** <%s>\n", i+1, a.Applicant.Name, a.Applicant.Email)
		fmt.Fprintf(&b, "> Listing: %s\n> Status: %s\n\n", a.ListingTitle, a.Status)
		entries[i] = b.String()
	}
	header := fmt.Sprintf("**%d application(s):**\n\n", len(apps))
	return dw.sendAll(ctx, chunk(header, entries, discordLimit))
}

func (dw *DiscordWriter) Notify(ctx context.Context, title, message string) error {
	return dw.send(ctx, fmt.Sprintf("**%s**\n%s", title, message))
}

func formatDiscordListing(n int, l model.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%d. %s**\n", n, l.Title)
	fmt.Fprintf(&b, "> Company: %s\n", l.Company)
	fmt.Fprintf(&b, "> Location: %s\n", l.Location)
	if l.Duration != "" {
		fmt.Fprintf(&b, "> Duration: %s\n", l.Duration)
	}
	if l.Stipend != "" {
		fmt.Fprintf(&b, "> Stipend: %s\n", l.Stipend)
	}
	fmt.Fprintf(&b, "> Match: %.0f%% (%s)\n", l.MatchScore, l.MatchLevel)
	b.WriteString("\n")
	return b.String()
}

type discordPayload struct {
	Content string `json:"content"`
}

func (dw *DiscordWriter) sendAll(ctx context.Context, chunks []string) error {
	for _, c := range chunks {
		if err := dw.send(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (dw *DiscordWriter) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(discordPayload{Content: text})
	if err != nil {
		return fmt.Errorf("discord: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dw.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("discord: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dw.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("discord: API error %d: %s", resp.StatusCode, result.Message)
	}
	return nil
}
