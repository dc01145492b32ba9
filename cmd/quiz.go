package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/app"
	"github.com/abhisek/prepcoach/internal/quiz"
	quizscreen "github.com/abhisek/prepcoach/internal/screens/quiz"
	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/ui/report"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Import, take and review graded quizzes",
}

func newQuizEngine(rt *runtime) *quiz.Engine {
	return quiz.NewEngine(rt.store.QuizRepo(), nil, rt.logger)
}

var quizImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a quiz definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open quiz file: %w", err)
		}
		defer f.Close()

		def, err := quiz.ParseDefinition(f)
		if err != nil {
			return err
		}
		q, err := newQuizEngine(rt).Import(cmd.Context(), def)
		if err != nil {
			return err
		}
		return emit(cmd, rt, q, func() string {
			return fmt.Sprintf("Imported %q with %d question(s) as %s", q.Title, len(def.Questions), q.ID)
		})
	},
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		quizzes, err := rt.store.QuizRepo().ListQuizzes(cmd.Context())
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		return emit(cmd, rt, quizzes, func() string { return report.Quizzes(quizzes) })
	},
}

// attemptQuestion is a question as shown to someone taking the quiz.
type attemptQuestion struct {
	ID      string             `json:"id"`
	Text    string             `json:"text"`
	Type    store.QuestionType `json:"type"`
	Options []string           `json:"options,omitempty"`
	Points  int                `json:"points"`
}

type startedAttempt struct {
	Attempt   store.Attempt     `json:"attempt"`
	Questions []attemptQuestion `json:"questions"`
}

var quizStartCmd = &cobra.Command{
	Use:   "start <quiz-id>",
	Short: "Start a new attempt and print its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		e := newQuizEngine(rt)
		a, err := e.Start(cmd.Context(), rt.user(), args[0])
		if err != nil {
			return err
		}
		r, err := e.Review(cmd.Context(), a.ID)
		if err != nil {
			return err
		}
		view := startedAttempt{Attempt: a, Questions: make([]attemptQuestion, len(r.Questions))}
		for i, q := range r.Questions {
			view.Questions[i] = attemptQuestion{ID: q.ID, Text: q.Text, Type: q.Type, Options: q.Options, Points: q.Points}
		}
		return emit(cmd, rt, view, func() string {
			return fmt.Sprintf("Attempt %s (%d of %d)\n\n%s", a.ID, a.AttemptNumber, r.Quiz.MaxAttempts, report.Questions(r))
		})
	},
}

var quizAnswerCmd = &cobra.Command{
	Use:   "answer <attempt-id> <question-id> <answer>...",
	Short: "Answer one question of an attempt",
	Long:  "Answer one question. Multiple-select questions take several answers.",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		resp, err := newQuizEngine(rt).Answer(cmd.Context(), args[0], args[1], args[2:])
		if err != nil {
			return err
		}
		return emit(cmd, rt, resp, func() string {
			if resp.IsCorrect {
				return fmt.Sprintf("Correct (+%d)", resp.PointsEarned)
			}
			return "Incorrect"
		})
	},
}

var quizSubmitCmd = &cobra.Command{
	Use:   "submit <attempt-id>",
	Short: "Submit an attempt for scoring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		a, err := newQuizEngine(rt).Submit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return emit(cmd, rt, a, func() string { return report.Result(a) })
	},
}

var quizReviewCmd = &cobra.Command{
	Use:   "review <attempt-id>",
	Short: "Review an attempt's answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		r, err := newQuizEngine(rt).Review(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if r.Attempt.State != store.AttemptSubmitted {
			for i := range r.Questions {
				r.Questions[i].CorrectAnswer = nil
			}
		}
		return emit(cmd, rt, r, func() string { return report.Review(r) })
	},
}

var quizTakeCmd = &cobra.Command{
	Use:   "take <quiz-id>",
	Short: "Take a quiz interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		return app.Run(quizscreen.New(newQuizEngine(rt), rt.user(), args[0]))
	},
}

func init() {
	quizCmd.AddCommand(quizImportCmd)
	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizStartCmd)
	quizCmd.AddCommand(quizAnswerCmd)
	quizCmd.AddCommand(quizSubmitCmd)
	quizCmd.AddCommand(quizReviewCmd)
	quizCmd.AddCommand(quizTakeCmd)
}
