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

const (
	telegramAPI   = "https://api.telegram.org"
	telegramLimit = 3800
)

// TelegramWriter sends results and notifications to a Telegram chat via the
// Bot API.
type TelegramWriter struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

func NewTelegramWriter(token, chatID string) *TelegramWriter {
	return &TelegramWriter{
		token:   token,
		chatID:  chatID,
		baseURL: telegramAPI,
		client:  &http.Client{},
	}
}

func (tw *TelegramWriter) WriteListings(ctx context.Context, listings []model.Listing) error {
	if len(listings) == 0 {
		return tw.send(ctx, "No internships found\\.")
	}

	entries := make([]string, len(listings))
	for i, l := range listings {
		entries[i] = formatListing(i+1, l)
	}
	header := fmt.Sprintf("*Found %d internship\\(s\\):*\n\n", len(listings))
	return tw.sendAll(ctx, chunk(header, entries, telegramLimit))
}

func (tw *TelegramWriter) WriteApplications(ctx context.Context, apps []model.Application) error {
	if len(apps) == 0 {
		return tw.send(ctx, "No applications yet\\.")
	}

	entries := make([]string, len(apps))
	for i, a := range apps {
		entries[i] = formatApplication(i+1, a)
	}
	header := fmt.Sprintf("*%d application\\(s\\):*\n\n", len(apps))
	return tw.sendAll(ctx, chunk(header, entries, telegramLimit))
}

func (tw *TelegramWriter) Notify(ctx context.Context, title, message string) error {
	return tw.send(ctx, fmt.Sprintf("*%s*\n%s", escapeMarkdown(title), escapeMarkdown(message)))
}

func formatListing(n int, l model.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(l.Title))
	fmt.Fprintf(&b, "Company: %s\n", escapeMarkdown(l.Company))
	fmt.Fprintf(&b, "Duration: %s \\| Stipend: %s\n", escapeMarkdown(l.Duration), escapeMarkdown(l.Stipend))
	fmt.Fprintf(&b, "Match: %s \\(%s\\)\n", escapeMarkdown(fmt.Sprintf("%.0f%%", l.MatchScore)), escapeMarkdown(string(l.MatchLevel)))
	b.WriteString("\n")
	return b.String()
}

func formatApplication(n int, a model.Application) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(a.Applicant.Name))
	fmt.Fprintf(&b, "Listing: %s\n", escapeMarkdown(a.ListingTitle))
	fmt.Fprintf(&b, "Status: %s\n", escapeMarkdown(string(a.Status)))
	b.WriteString("\n")
	return b.String()
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
		">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
		"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
		".", "\\.", "!", "\\!",
	)
	return replacer.Replace(s)
}

func (tw *TelegramWriter) sendAll(ctx context.Context, chunks []string) error {
	for _, c := range chunks {
		if err := tw.send(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (tw *TelegramWriter) send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", tw.baseURL, tw.token)

	body, err := json.Marshal(map[string]string{
		"chat_id":    tw.chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	})
	if err != nil {
		return fmt.Errorf("telegram: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tw.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error %d: %s", resp.StatusCode, result.Description)
	}
	return nil
}
