package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/apperr"
	"github.com/abhisek/prepcoach/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		events, err := rt.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		return emit(cmd, rt, events, func() string { return formatEvents(events) })
	},
}

func formatEvents(events []store.LLMEvent) string {
	if len(events) == 0 {
		return "No LLM events found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s  %-19s  %-20s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	b.WriteString(strings.Repeat("─", 106))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(&b, "\n%-5d  %-19s  %-20s  %-28s  %-6d  %-6d  %-7d  %s",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Purpose, 20),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
	return b.String()
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		e, err := rt.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("LLM event", args[0])
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if rt.jsonOutput() {
			return emit(cmd, rt, e, nil)
		}
		writeEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func writeEvent(w io.Writer, e *store.LLMEvent) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n%s\n%s\n%s\n", sep, part.title, sep)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		byPurpose, err := rt.store.EventRepo().LLMUsageBy(cmd.Context(), "purpose")
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := rt.store.EventRepo().LLMUsageBy(cmd.Context(), "model")
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		stats := map[string][]store.LLMUsage{"purpose": byPurpose, "model": byModel}
		return emit(cmd, rt, stats, func() string {
			if len(byPurpose) == 0 {
				return "No LLM usage recorded yet."
			}
			return formatUsage("Purpose", byPurpose) + "\n\n" + formatUsage("Model", byModel)
		})
	},
}

func formatUsage(key string, usage []store.LLMUsage) string {
	var b strings.Builder
	rule := strings.Repeat("─", 86)
	fmt.Fprintf(&b, "Usage by %s\n%s\n", key, rule)
	fmt.Fprintf(&b, "%-28s  %6s  %8s  %10s  %10s  %10s  %8s\n%s\n",
		key, "Calls", "Failed", "Input", "Output", "Total", "Avg Ms", rule)

	var calls, failed, in, out int
	for _, u := range usage {
		fmt.Fprintf(&b, "%-28s  %6d  %8d  %10d  %10d  %10d  %8d\n",
			truncate(u.Key, 28), u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		failed += u.Failures
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintf(&b, "%s\n%-28s  %6d  %8d  %10d  %10d  %10d", rule, "TOTAL", calls, failed, in, out, in+out)
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. answer-analysis, question-suggestions)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
