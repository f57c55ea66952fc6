package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/studyloop/lecturecast/internal/lecture"
)

var (
	renderStyle string
	renderWidth uint
	renderCopy  bool
	convertTo   string

	transcriptCmd = &cobra.Command{
		Use:   "transcript",
		Short: "Work with saved lecture transcripts",
		Args:  cobra.NoArgs,
	}

	transcriptRenderCmd = &cobra.Command{
		Use:     "render FILE",
		Short:   "Render a saved transcript in the terminal",
		Long:    paragraph(fmt.Sprintf("\n%s a JSON or YAML transcript written by %s as styled markdown.", keyword("Render"), keyword("lecture --transcript-out"))),
		Example: paragraph("lecturecast transcript render notes.json\nlecturecast transcript render notes.yaml --copy"),
		Args:    cobra.ExactArgs(1),
		RunE:    renderTranscript,
	}

	transcriptConvertCmd = &cobra.Command{
		Use:     "convert FILE",
		Short:   "Convert a saved transcript to another format",
		Example: paragraph("lecturecast transcript convert notes.json --to text > notes.txt"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := readTranscript(args[0])
			if err != nil {
				return err
			}
			f, err := lecture.ParseFormat(convertTo)
			if err != nil {
				return err //nolint:wrapcheck
			}
			out, err := tr.Export(f)
			if err != nil {
				return err //nolint:wrapcheck
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err //nolint:wrapcheck
		},
	}
)

func renderTranscript(cmd *cobra.Command, args []string) error {
	tr, err := readTranscript(args[0])
	if err != nil {
		return err
	}
	md, err := tr.Export(lecture.FormatMarkdown)
	if err != nil {
		return err //nolint:wrapcheck
	}

	width := renderWidth
	isTerminal := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec
	if width == 0 && isTerminal {
		w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec
		if err == nil {
			width = uint(w) //nolint:gosec
		}
		if width > 120 {
			width = 120
		}
	}
	if width == 0 {
		width = 80
	}

	style := renderStyle
	if !isTerminal && style == styles.AutoStyle {
		style = styles.NoTTYStyle
	}
	var styleOpt glamour.TermRendererOption
	if style == styles.AutoStyle {
		styleOpt = glamour.WithAutoStyle()
	} else {
		styleOpt = glamour.WithStylePath(style)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		styleOpt,
		glamour.WithWordWrap(int(width)), //nolint:gosec
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(string(md))
	if err != nil {
		return fmt.Errorf("unable to render markdown: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if renderCopy {
		text, err := tr.Export(lecture.FormatText)
		if err != nil {
			return err //nolint:wrapcheck
		}
		termenv.Copy(string(text))
		if err := clipboard.WriteAll(string(text)); err != nil {
			return fmt.Errorf("unable to copy transcript: %w", err)
		}
		fmt.Fprintln(os.Stderr, subtle("Copied transcript to clipboard"))
	}
	return nil
}

// readTranscript loads a JSON or YAML export.
func readTranscript(path string) (lecture.Transcript, error) {
	var tr lecture.Transcript
	data, err := os.ReadFile(path)
	if err != nil {
		return tr, fmt.Errorf("unable to read transcript: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tr)
	case ".json":
		err = json.Unmarshal(data, &tr)
	default:
		return tr, fmt.Errorf("%s: only JSON and YAML transcripts can be read back", path)
	}
	if err != nil {
		return tr, fmt.Errorf("unable to parse transcript: %w", err)
	}
	if tr.TotalEntries == 0 {
		tr.TotalEntries = len(tr.Entries)
	}
	return tr, nil
}

// transcriptFormatFor picks the export format from the explicit flag or
// the file extension, defaulting to markdown.
func transcriptFormatFor(path, explicit string) (lecture.Format, error) {
	if explicit != "" {
		f, err := lecture.ParseFormat(explicit)
		if err != nil {
			return "", fmt.Errorf("--format: %w", err)
		}
		return f, nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := lecture.ParseFormat(ext)
	if errors.Is(err, lecture.ErrUnknownFormat) {
		return lecture.FormatMarkdown, nil
	}
	return f, err //nolint:wrapcheck
}

func init() {
	transcriptRenderCmd.Flags().StringVar(&renderStyle, "style", styles.AutoStyle, "style name or JSON path")
	transcriptRenderCmd.Flags().UintVarP(&renderWidth, "width", "w", 0, "word-wrap at width (0 uses the terminal width)")
	transcriptRenderCmd.Flags().BoolVarP(&renderCopy, "copy", "c", false, "also copy the plain-text transcript to the clipboard")
	transcriptConvertCmd.Flags().StringVar(&convertTo, "to", string(lecture.FormatText), "json, text, markdown or yaml")

	transcriptCmd.AddCommand(transcriptRenderCmd, transcriptConvertCmd)
}
