package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/coaching"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/speech"
	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/ui/report"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run recorded practice sessions",
}

// newSessionService builds the session service. Only responding needs
// the analyst; other commands pass nil.
func newSessionService(rt *runtime, analyst *coaching.Analyst) *session.Service {
	return session.NewService(rt.store.SessionRepo(), analyst, session.DefaultConfig(), rt.logger)
}

// sessionID returns --session, or the user's session in progress.
func sessionID(cmd *cobra.Command, rt *runtime, svc *session.Service) (string, error) {
	if id, _ := cmd.Flags().GetString("session"); id != "" {
		return id, nil
	}
	cur, err := svc.Current(cmd.Context(), rt.user())
	if err != nil {
		return "", err
	}
	return cur.ID, nil
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <question>",
	Short: "Start a practice session around a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		role, _ := cmd.Flags().GetString("role")
		industry, _ := cmd.Flags().GetString("industry")
		svc := newSessionService(rt, nil)
		sess, err := svc.Start(cmd.Context(), rt.user(), joinArgs(args), role, industry)
		if err != nil {
			return err
		}
		return emit(cmd, rt, sess, func() string { return report.Session(sess, nil) })
	},
}

var sessionRespondCmd = &cobra.Command{
	Use:   "respond",
	Short: "Analyze and record a spoken answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		transcript, err := readTranscript(cmd)
		if err != nil {
			return err
		}
		duration, _ := cmd.Flags().GetDuration("duration")

		svc := newSessionService(rt, rt.analyst(cmd.Context()))
		id, err := sessionID(cmd, rt, svc)
		if err != nil {
			return err
		}
		fb, err := svc.Respond(cmd.Context(), id, transcript, duration)
		if err != nil {
			return err
		}
		return emit(cmd, rt, fb, func() string {
			return strings.Join([]string{
				report.Metrics(fb.Metrics),
				report.Insights(fb.Insights),
				report.Analysis(fb.Analysis),
			}, "\n")
		})
	},
}

type liveResult struct {
	Metrics  speech.Metrics     `json:"metrics"`
	Insights []coaching.Insight `json:"insights"`
}

var sessionLiveCmd = &cobra.Command{
	Use:   "live",
	Short: "Coach an answer in progress without recording it",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		var transcript string
		if cmd.Flags().Changed("transcript") || cmd.Flags().Changed("file") {
			if transcript, err = readTranscript(cmd); err != nil {
				return err
			}
		}
		elapsed, _ := cmd.Flags().GetDuration("elapsed")

		svc := newSessionService(rt, nil)
		id, err := sessionID(cmd, rt, svc)
		if err != nil {
			return err
		}
		insights, metrics, err := svc.Live(cmd.Context(), id, transcript, elapsed)
		if err != nil {
			return err
		}
		res := liveResult{Metrics: metrics, Insights: insights}
		return emit(cmd, rt, res, func() string {
			out := report.Insights(insights)
			if strings.TrimSpace(transcript) != "" && elapsed > 0 {
				out = report.Metrics(metrics) + "\n" + out
			}
			return out
		})
	},
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete the session and record its summary in your history",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		svc := newSessionService(rt, nil)
		id, err := sessionID(cmd, rt, svc)
		if err != nil {
			return err
		}
		snap, err := svc.Complete(cmd.Context(), id)
		if err != nil {
			return err
		}
		return emit(cmd, rt, snap, func() string { return report.Snapshot(snap) })
	},
}

type sessionView struct {
	Session   store.PracticeSession   `json:"session"`
	Responses []store.SessionResponse `json:"responses"`
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session and its responses",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		svc := newSessionService(rt, nil)
		var id string
		if len(args) == 1 {
			id = args[0]
		} else if id, err = sessionID(cmd, rt, svc); err != nil {
			return err
		}
		sess, responses, err := svc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return emit(cmd, rt, sessionView{Session: sess, Responses: responses}, func() string {
			return report.Session(sess, responses)
		})
	},
}

func init() {
	addQuestionFlags(sessionStartCmd)

	addTranscriptFlags(sessionRespondCmd)
	sessionLiveCmd.Flags().StringP("transcript", "t", "", "Transcript so far")
	sessionLiveCmd.Flags().StringP("file", "f", "", "Read the transcript from a file (- for stdin)")
	sessionLiveCmd.Flags().Duration("elapsed", 0, "Time spoken so far")

	for _, c := range []*cobra.Command{sessionRespondCmd, sessionLiveCmd, sessionCompleteCmd, sessionShowCmd} {
		c.Flags().String("session", "", "Session ID (default: your session in progress)")
	}

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionRespondCmd)
	sessionCmd.AddCommand(sessionLiveCmd)
	sessionCmd.AddCommand(sessionCompleteCmd)
	sessionCmd.AddCommand(sessionShowCmd)
}
