// Package main provides the go-intern command line: the student and
// recruiter flows of the marketplace plus the HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	telegramToken  string
	telegramChatID string
	discordWebhook string
)

var rootCmd = &cobra.Command{
	Use:   "go-intern",
	Short: "Internship marketplace for students and recruiters",
	Long: `go-intern matches students with internships scored against their skills,
lets recruiters post listings and review applications, and serves the same
operations as a JSON API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "go-intern.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&telegramToken, "telegram-token", "", "Telegram bot token (overrides TELEGRAM_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&telegramChatID, "telegram-chat-id", "", "Telegram chat ID (overrides TELEGRAM_CHAT_ID)")
	rootCmd.PersistentFlags().StringVar(&discordWebhook, "discord-webhook", "", "Discord webhook URL (overrides DISCORD_WEBHOOK_URL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
