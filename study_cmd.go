package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/studyloop/lecturecast/internal/content"
	"github.com/studyloop/lecturecast/internal/lecture"
)

var (
	studyFrom   string
	studyCount  int
	studyOutput string

	studyCmd = &cobra.Command{
		Use:       "study flashcards|quiz",
		Short:     "Generate flashcards or a quiz from the lecture",
		Long:      paragraph(fmt.Sprintf("\n%s study material from a saved transcript, or from the built-in lecture text. Gemini writes the material when GEMINI_API_KEY is set.", keyword("Generate"))),
		Example:   paragraph("lecturecast study flashcards -n 10\nlecturecast study quiz --from notes.json -o yaml"),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"flashcards", "quiz"},
		RunE:      runStudy,
	}
)

func runStudy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	text, err := studyText()
	if err != nil {
		return err
	}

	st, err := buildStack(ctx, cfg, secrets, stackOptions{})
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	study := content.NewStudy(st.completer())
	var out any
	switch args[0] {
	case "flashcards":
		out, err = study.Flashcards(ctx, text, studyCount)
	case "quiz":
		out, err = study.Quiz(ctx, text, studyCount)
	}
	if err != nil {
		return err //nolint:wrapcheck
	}

	var data []byte
	switch strings.ToLower(studyOutput) {
	case "json":
		data, err = json.MarshalIndent(out, "", "  ")
		data = append(data, '\n')
	case "yaml", "yml":
		data, err = yaml.Marshal(out)
	default:
		return fmt.Errorf("unknown output %q: use json or yaml", studyOutput)
	}
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", args[0], err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err //nolint:wrapcheck
}

// studyText returns the lecture narration from --from, or the built-in
// section texts.
func studyText() (string, error) {
	if studyFrom == "" {
		parts := make([]string, 0, len(content.Sections))
		for _, s := range content.Sections {
			parts = append(parts, content.FallbackText(s))
		}
		return strings.Join(parts, "\n\n"), nil
	}

	tr, err := readTranscript(studyFrom)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, e := range tr.Entries {
		if !e.IsQA() {
			parts = append(parts, e.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%s: %w", studyFrom, lecture.ErrEmptyTranscript)
	}
	return strings.Join(parts, "\n\n"), nil
}

func init() {
	studyCmd.Flags().StringVar(&studyFrom, "from", "", "JSON or YAML transcript to study from (default: the built-in lecture)")
	studyCmd.Flags().IntVarP(&studyCount, "count", "n", 8, "number of cards or questions")
	studyCmd.Flags().StringVarP(&studyOutput, "output", "o", "json", "json or yaml")
}
