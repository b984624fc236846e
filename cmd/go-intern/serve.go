package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rsilvagit/go-intern/internal/scheduler"
	"github.com/rsilvagit/go-intern/internal/server"
)

var (
	servePort    int
	serveNoCron  bool
	serveGinMode string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long: `Start an HTTP server exposing the marketplace operations, together with
the cron job that reminds recruiters of pending applications.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send pending-application reminders once",
	Args:  cobra.NoArgs,
	RunE:  run(runRemind),
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides the config)")
	serveCmd.Flags().BoolVar(&serveNoCron, "no-reminders", false, "Do not start the reminder scheduler")
	serveCmd.Flags().StringVar(&serveGinMode, "gin-mode", gin.ReleaseMode, "Gin mode: debug, release or test")
	rootCmd.AddCommand(serveCmd, remindCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	gin.SetMode(serveGinMode)

	opts := server.Options{
		Port:         a.cfg.Server.Port,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		AllowOrigins: a.cfg.Server.AllowOrigins,
	}
	if servePort != 0 {
		opts.Port = servePort
	}
	srv := server.New(a.svc, opts, a.logger)

	ctx := cmd.Context()
	if !serveNoCron {
		sched := scheduler.New(a.state, a.notifier, a.cfg.Reminder.Schedule, a.logger)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func runRemind(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	sched := scheduler.New(a.state, a.notifier, a.cfg.Reminder.Schedule, a.logger)
	sent, err := sched.RunOnce(ctx)
	if err != nil {
		return err
	}
	if len(sent) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending applications.")
	}
	return nil
}
