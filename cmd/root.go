package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prepcoach",
	Short: "Interview practice analytics and coaching",
	Long: "PrepCoach classifies interview questions, measures spoken answers, coaches\n" +
		"delivery, predicts readiness from practice history, and grades quizzes.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Config file (default: prepcoach.yaml in ., $HOME/.config/prepcoach, /etc/prepcoach)")
	f.String("db", "", "Path to SQLite database file (overrides PREPCOACH_DB)")
	f.StringP("user", "u", "local", "User the practice data belongs to")
	f.StringP("output", "o", "text", "Output format (text, json)")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("llm-provider", "", "LLM provider (anthropic, openai, gemini, openrouter, mock, none)")
	f.Duration("llm-timeout", 0, "Timeout for one LLM call including retries")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv loads .env from the working directory without overriding
// variables already set.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
