package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/trends"
	"github.com/abhisek/prepcoach/internal/ui/report"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show performance trends and readiness predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		cfg := trends.DefaultConfig()
		if target, _ := cmd.Flags().GetInt("target"); target > 0 {
			cfg.TargetScore = target
		}
		insights, err := trends.NewService(rt.store.HistoryRepo(), cfg, rt.logger).Insights(cmd.Context(), rt.user())
		if err != nil {
			return err
		}
		return emit(cmd, rt, insights, func() string { return report.Trends(insights) })
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded performance history",
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history snapshots older than a cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		allUsers, _ := cmd.Flags().GetBool("all-users")
		user := rt.user()
		if allUsers {
			user = ""
		}

		n, err := rt.store.HistoryRepo().Prune(cmd.Context(), user, time.Now().Add(-olderThan))
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		return emit(cmd, rt, map[string]int64{"removed": n}, func() string {
			return fmt.Sprintf("Removed %d snapshot(s).", n)
		})
	},
}

func init() {
	trendsCmd.Flags().Int("target", 0, "Target overall score (default 85)")

	historyPruneCmd.Flags().Duration("older-than", 180*24*time.Hour, "Delete snapshots older than this")
	historyPruneCmd.Flags().Bool("all-users", false, "Prune every user's history")
	historyCmd.AddCommand(historyPruneCmd)
}
