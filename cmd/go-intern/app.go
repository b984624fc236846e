package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rsilvagit/go-intern/internal/auth"
	"github.com/rsilvagit/go-intern/internal/config"
	"github.com/rsilvagit/go-intern/internal/generator"
	"github.com/rsilvagit/go-intern/internal/match"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/output"
	"github.com/rsilvagit/go-intern/internal/session"
	"github.com/rsilvagit/go-intern/internal/store"
)

// app bundles everything a command needs. Close releases the store.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	kv       store.Store
	state    *store.State
	svc      *session.Service
	sess     *session.Session
	notifier output.Notifier
	writers  []output.ResultWriter
}

// newApp loads configuration and wires the service. interactive selects the
// single-user mode: console notifications and a restored current user.
func newApp(cmd *cobra.Command, interactive bool) (*app, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if telegramToken != "" {
		cfg.Notify.TelegramToken = telegramToken
	}
	if telegramChatID != "" {
		cfg.Notify.TelegramChatID = telegramChatID
	}
	if discordWebhook != "" {
		cfg.Notify.DiscordWebhook = discordWebhook
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	kv, err := store.Open(ctx, store.Options{
		Backend:     cfg.Store.Backend,
		Path:        cfg.Store.Path,
		RedisURL:    cfg.Store.RedisURL,
		TTL:         cfg.Store.TTL,
		DatabaseURL: cfg.Store.DatabaseURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	state := store.NewState(kv, logger)

	a := &app{cfg: cfg, logger: logger, kv: kv, state: state}

	notifiers := output.Multi{}
	if interactive {
		notifiers = append(notifiers, output.NewConsoleNotifier(cmd.OutOrStdout()))
		a.writers = append(a.writers, output.NewConsolePrinter(cmd.OutOrStdout()))
	} else {
		notifiers = append(notifiers, output.NewLogNotifier(logger))
	}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		tw := output.NewTelegramWriter(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
		notifiers = append(notifiers, tw)
		a.writers = append(a.writers, tw)
	}
	if cfg.Notify.DiscordWebhook != "" {
		dw := output.NewDiscordWriter(cfg.Notify.DiscordWebhook)
		notifiers = append(notifiers, dw)
		a.writers = append(a.writers, dw)
	}
	a.notifier = notifiers

	a.svc = session.NewService(session.Deps{
		State:     state,
		Accounts:  auth.NewAccounts(state, cfg.Auth.BcryptCost),
		Tokens:    auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Generator: generator.New(),
		Scorer:    match.NewScorer(cfg.Match),
		Notifier:  notifiers,
		Logger:    logger,
	}, session.Options{
		SearchDelay:      cfg.Search.Delay,
		QuickSearchDelay: cfg.Search.QuickDelay,
		ChatDelay:        cfg.Search.ChatDelay,
		ResumeDelay:      cfg.Search.Delay,
		TrackCurrentUser: interactive,
	})

	if interactive {
		a.sess, err = a.svc.Restore(ctx)
		if err != nil {
			kv.Close()
			return nil, fmt.Errorf("restore session: %w", err)
		}
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("close store", "err", err)
	}
}

func (a *app) writeListings(ctx context.Context, listings []model.Listing) {
	for _, w := range a.writers {
		if err := w.WriteListings(ctx, listings); err != nil {
			a.logger.Warn("write listings failed", "err", err)
		}
	}
}

func (a *app) writeApplications(ctx context.Context, apps []model.Application) {
	for _, w := range a.writers {
		if err := w.WriteApplications(ctx, apps); err != nil {
			a.logger.Warn("write applications failed", "err", err)
		}
	}
}

// run wraps a command body that needs the interactive app.
func run(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, cmd, args)
	}
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
