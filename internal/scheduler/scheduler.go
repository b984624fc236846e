// Package scheduler wires up the cron job that periodically reminds
// recruiters of applications still waiting for review.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/output"
	"github.com/rsilvagit/go-intern/internal/store"
)

// Scheduler wraps robfig/cron and runs the reminder sweep.
type Scheduler struct {
	cron     *cron.Cron
	state    *store.State
	notifier output.Notifier
	spec     string // cron spec, e.g. "@every 6h"
	logger   *slog.Logger
}

// New creates a Scheduler firing on spec.
func New(state *store.State, notifier output.Notifier, spec string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger)),
		state:    state,
		notifier: notifier,
		spec:     spec,
		logger:   logger,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Warn("reminder sweep failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("reminder scheduler started", "spec", s.spec)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}

// Reminder is the pending-review count of one recruiter.
type Reminder struct {
	Recruiter string
	Pending   int
}

// RunOnce sends one "Pending Applications" notification per recruiter with
// pending reviews and returns what was sent. A failed notification is logged
// and does not stop the sweep.
func (s *Scheduler) RunOnce(ctx context.Context) ([]Reminder, error) {
	owners, err := s.state.ApplicationOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list application owners: %w", err)
	}

	var sent []Reminder
	for _, email := range owners {
		apps, err := s.state.Applications(ctx, email)
		if err != nil {
			return sent, fmt.Errorf("load applications for %s: %w", email, err)
		}

		pending := countPending(apps)
		if pending == 0 {
			continue
		}

		msg := fmt.Sprintf("%s: you have %d application(s) waiting for review.", email, pending)
		if err := s.notifier.Notify(ctx, "Pending Applications", msg); err != nil {
			s.logger.Warn("reminder notification failed", "recruiter", email, "err", err)
			continue
		}
		sent = append(sent, Reminder{Recruiter: email, Pending: pending})
	}

	s.logger.Info("reminder sweep complete", "recruiters", len(owners), "reminded", len(sent))
	return sent, nil
}

func countPending(apps []model.Application) int {
	n := 0
	for _, a := range apps {
		if a.Status == model.ApplicationPending {
			n++
		}
	}
	return n
}
