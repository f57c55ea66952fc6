package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studyloop/lecturecast/internal/chunk"
	"github.com/studyloop/lecturecast/internal/notation"
)

var (
	normalizeTrace bool
	keepMarkdown   bool

	normalizeCmd = &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print text the way it will be spoken",
		Long: paragraph(fmt.Sprintf("\n%s math notation and LaTeX into words. Reads stdin when no text is given.",
			keyword("Spell out"))),
		Example: paragraph("lecturecast normalize 'x^2 - 4 = 0'\nlecturecast normalize --trace '$\\frac{3}{4}$'"),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(args)
			if err != nil {
				return err
			}
			if !keepMarkdown {
				text = chunk.StripMarkdown(text)
			}
			n := notation.New()
			if normalizeTrace {
				return printTrace(cmd.OutOrStdout(), n, text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.Normalize(text))
			return nil
		},
	}

	chunkMin int
	chunkMax int

	chunkCmd = &cobra.Command{
		Use:     "chunk [text...]",
		Short:   "Print the normalized text split into speech chunks",
		Example: paragraph("lecturecast chunk --max-words 12 < section.md"),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(args)
			if err != nil {
				return err
			}
			minWords, maxWords := cfg.Lecture.MinWords, cfg.Lecture.MaxWords
			if chunkMin > 0 {
				minWords = chunkMin
			}
			if chunkMax > 0 {
				maxWords = chunkMax
			}
			c := chunk.New(chunk.WithMinWords(minWords), chunk.WithMaxWords(maxWords))
			for i, part := range c.Chunk(notation.Normalize(chunk.StripMarkdown(text))) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", subtle(fmt.Sprintf("%3d", i+1)), part)
			}
			return nil
		},
	}
)

func printTrace(w io.Writer, n *notation.Normalizer, text string) error {
	for _, st := range n.Trace(text) {
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", keyword(st.Stage), st.Text); err != nil {
			return err //nolint:wrapcheck
		}
	}
	return nil
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeTrace, "trace", false, "show the text after each rule stage")
	normalizeCmd.Flags().BoolVar(&keepMarkdown, "keep-markdown", false, "do not strip markdown before normalizing")
	chunkCmd.Flags().IntVar(&chunkMin, "min-words", 0, "minimum words per chunk (default from config)")
	chunkCmd.Flags().IntVar(&chunkMax, "max-words", 0, "maximum words per chunk (default from config)")
}
