package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/coaching"
	"github.com/abhisek/prepcoach/internal/ui/report"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest practice questions for a role",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		role, _ := cmd.Flags().GetString("role")
		industry, _ := cmd.Flags().GetString("industry")
		count, _ := cmd.Flags().GetInt("count")

		s := rt.analyst(cmd.Context()).SuggestQuestions(cmd.Context(), coaching.SuggestRequest{
			Role:     role,
			Industry: industry,
			Count:    count,
		})
		return emit(cmd, rt, s, func() string { return report.Suggestions(s) })
	},
}

func init() {
	addQuestionFlags(suggestCmd)
	suggestCmd.Flags().IntP("count", "n", 5, "Number of questions")
}
