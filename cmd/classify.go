package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/coaching"
	"github.com/abhisek/prepcoach/internal/speech"
	"github.com/abhisek/prepcoach/internal/ui/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <question>",
	Short: "Classify an interview question by type, category and difficulty",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		text := joinArgs(args)
		if err := classify.ValidateText(text); err != nil {
			return err
		}
		role, _ := cmd.Flags().GetString("role")
		industry, _ := cmd.Flags().GetString("industry")

		qc := classify.New(classify.DefaultLexicon()).Classify(text, role, industry)
		return emit(cmd, rt, qc, func() string { return report.Classification(qc) })
	},
}

type coachResult struct {
	Question classify.Context   `json:"question"`
	Metrics  *speech.Metrics    `json:"metrics,omitempty"`
	Insights []coaching.Insight `json:"insights"`
	Analysis *coaching.Analysis `json:"analysis,omitempty"`
}

var coachCmd = &cobra.Command{
	Use:   "coach <question>",
	Short: "Get coaching for an answer without recording a session",
	Long: "Classifies the question, measures the transcript when one is given, and\n" +
		"prints ranked coaching insights. --live treats the answer as still in\n" +
		"progress after --elapsed; --analyze also asks the language model to score it.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		question := joinArgs(args)
		if err := classify.ValidateText(question); err != nil {
			return err
		}
		role, _ := cmd.Flags().GetString("role")
		industry, _ := cmd.Flags().GetString("industry")
		live, _ := cmd.Flags().GetBool("live")
		elapsed, _ := cmd.Flags().GetDuration("elapsed")
		analyze, _ := cmd.Flags().GetBool("analyze")
		duration, _ := cmd.Flags().GetDuration("duration")

		classifier := classify.New(classify.DefaultLexicon())
		res := coachResult{Question: classifier.Classify(question, role, industry)}

		var transcript string
		if cmd.Flags().Changed("transcript") || cmd.Flags().Changed("file") {
			if transcript, err = readTranscript(cmd); err != nil {
				return err
			}
		}
		if live {
			duration = elapsed
		}
		req := coaching.Request{Question: res.Question, Answer: transcript}
		if strings.TrimSpace(transcript) != "" && (!live || elapsed > 0) {
			m, err := speech.NewAnalyzer(speech.DefaultConfig()).Analyze(transcript, duration)
			if err != nil {
				return err
			}
			res.Metrics = &m
			req.Speech = &m
		}

		gen := coaching.NewGenerator(coaching.DefaultConfig())
		if live {
			req.Answer = ""
			res.Insights = gen.GenerateLive(req, elapsed)
		} else {
			res.Insights = gen.Generate(req)
		}

		if analyze && strings.TrimSpace(transcript) != "" {
			a := rt.analyst(cmd.Context()).AnalyzeAnswer(cmd.Context(), coaching.AnalysisRequest{
				Question:   question,
				Context:    res.Question,
				Transcript: transcript,
			})
			res.Analysis = &a
		}

		return emit(cmd, rt, res, func() string {
			parts := []string{report.Classification(res.Question)}
			if res.Metrics != nil {
				parts = append(parts, report.Metrics(*res.Metrics))
			}
			parts = append(parts, report.Insights(res.Insights))
			if res.Analysis != nil {
				parts = append(parts, report.Analysis(*res.Analysis))
			}
			return strings.Join(parts, "\n")
		})
	},
}

func addQuestionFlags(cmd *cobra.Command) {
	cmd.Flags().String("role", "", "Role being interviewed for")
	cmd.Flags().String("industry", "", "Industry of the role")
}

func init() {
	addQuestionFlags(classifyCmd)

	addQuestionFlags(coachCmd)
	addTranscriptFlags(coachCmd)
	coachCmd.Flags().Bool("live", false, "Coach an answer still in progress")
	coachCmd.Flags().Duration("elapsed", 0, "Time spoken so far (with --live)")
	coachCmd.Flags().Bool("analyze", false, "Also score the answer with the language model")
}
