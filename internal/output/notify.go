package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Notifier delivers a titled user notification.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// ConsoleNotifier prints notifications as "[title] message".
type ConsoleNotifier struct {
	w io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleNotifier{w: w}
}

func (cn *ConsoleNotifier) Notify(_ context.Context, title, message string) error {
	_, err := fmt.Fprintf(cn.w, "[%s] %s\n", title, message)
	return err
}

// LogNotifier records notifications as structured log lines.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (ln *LogNotifier) Notify(ctx context.Context, title, message string) error {
	ln.logger.InfoContext(ctx, "notification", "title", title, "message", message)
	return nil
}

// Multi fans a notification out to every notifier. All are attempted; their
// errors are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, title, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, title, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// chunk packs header and entries into messages no longer than limit bytes.
func chunk(header string, entries []string, limit int) []string {
	var chunks []string
	current := header

	for _, e := range entries {
		if len(current)+len(e) > limit && current != "" {
			chunks = append(chunks, current)
			current = ""
		}
		current += e
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
