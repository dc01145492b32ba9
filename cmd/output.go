package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// emit writes v as indented JSON when --output json is set, otherwise the
// rendered text.
func emit(cmd *cobra.Command, rt *runtime, v any, text func() string) error {
	w := cmd.OutOrStdout()
	if rt.jsonOutput() {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text())
	return err
}

// readTranscript returns --transcript, or the contents of --file ("-"
// reads stdin).
func readTranscript(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("transcript")
	path, _ := cmd.Flags().GetString("file")

	switch {
	case text != "" && path != "":
		return "", fmt.Errorf("use either --transcript or --file, not both")
	case text != "":
		return text, nil
	case path == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("a transcript is required (--transcript or --file)")
}

func addTranscriptFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("transcript", "t", "", "Transcript text of the spoken answer")
	cmd.Flags().StringP("file", "f", "", "Read the transcript from a file (- for stdin)")
	cmd.Flags().Duration("duration", 0, "How long the answer took (default 60s)")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
