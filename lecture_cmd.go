package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/studyloop/lecturecast/internal/audio"
	"github.com/studyloop/lecturecast/internal/lecture"
	"github.com/studyloop/lecturecast/ui"
)

var (
	startSection     string
	transcriptOut    string
	transcriptFormat string
	noQA             bool

	lectureCmd = &cobra.Command{
		Use:   "lecture",
		Short: "Deliver the Algebra Level 1 lecture",
		Long: paragraph(fmt.Sprintf("\n%s the eight-section Algebra Level 1 lecture aloud, pausing after each section for questions. "+
			"In a terminal the lecture runs in a full-screen view; otherwise progress is logged and questions are read from stdin.",
			keyword("Speak"))),
		Example: paragraph("lecturecast lecture\nlecturecast lecture --start-section vocab --transcript-out notes.md\nlecturecast lecture --engine mock --muted --no-qa"),
		Args:    cobra.NoArgs,
		RunE:    runLecture,
	}
)

func runLecture(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec
	if !interactive {
		logToStderr()
	}

	start := 0
	if startSection != "" {
		var err error
		if start, err = lecture.FindSection(startSection); err != nil {
			return fmt.Errorf("--start-section %q: %w", startSection, err)
		}
	}
	if transcriptOut != "" {
		if _, err := transcriptFormatFor(transcriptOut, transcriptFormat); err != nil {
			return err
		}
	}

	lc, err := lectureConfig(cfg)
	if err != nil {
		return err
	}
	if noQA {
		lc.QAEnabled = false
	}

	st, err := buildStack(ctx, cfg, secrets, stackOptions{speech: true, events: true})
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	var dev audio.Device
	if !lc.Muted {
		dev = audio.NewOtoDevice()
	}

	if interactive {
		return lectureTUI(ctx, st, dev, lc, start)
	}
	return lectureCLI(ctx, st, dev, lc, start)
}

func lectureTUI(ctx context.Context, st *stack, dev audio.Device, lc lecture.Config, start int) error {
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	asker := ui.NewAsker()
	ctrl := lecture.New(st.lectureDeps(dev, asker), lc)
	p := ui.NewProgram(uiCfg, ctrl)
	asker.Attach(p)

	if err := ctrl.StartAt(ctx, start); err != nil {
		return err //nolint:wrapcheck
	}
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, runErr := p.Run()
	_ = ctrl.Stop()
	if err := finishLecture(ctrl); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("unable to run tui: %w", runErr)
	}
	return nil
}

func lectureCLI(ctx context.Context, st *stack, dev audio.Device, lc lecture.Config, start int) error {
	asker := lecture.NewLineAsker(os.Stdin, os.Stdout)
	ctrl := lecture.New(st.lectureDeps(dev, asker), lc)
	if err := ctrl.StartAt(ctx, start); err != nil {
		return err //nolint:wrapcheck
	}

	if err := ctrl.Wait(ctx); err != nil {
		log.Info("Lecture interrupted", "section", ctrl.Status().CurrentSection)
	}
	_ = ctrl.Stop()
	return finishLecture(ctrl)
}

// finishLecture prints the summary and writes the transcript.
func finishLecture(ctrl *lecture.Controller) error {
	s := ctrl.Status()
	fmt.Println(s.Summary())

	if transcriptOut == "" {
		return nil
	}
	format, err := transcriptFormatFor(transcriptOut, transcriptFormat)
	if err != nil {
		return err
	}
	data, err := ctrl.Export(format)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if err := os.WriteFile(transcriptOut, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write transcript: %w", err)
	}
	fmt.Println(subtle(fmt.Sprintf("Transcript written to %s (%d entries)", transcriptOut, s.TranscriptEntries)))
	return nil
}

func init() {
	lectureCmd.Flags().String("engine", "", "speech engine: piper, gtts or mock")
	lectureCmd.Flags().Bool("muted", false, "run without opening an audio device")
	lectureCmd.Flags().Int64("seed", 0, "seed for prompt variety (0 picks a random seed)")
	lectureCmd.Flags().String("audio-format", "", "auto, float32 or int16")
	lectureCmd.Flags().BoolVar(&noQA, "no-qa", false, "skip the question breaks")
	lectureCmd.Flags().StringVarP(&startSection, "start-section", "s", "", "section name, number or fuzzy match to start from")
	lectureCmd.Flags().StringVarP(&transcriptOut, "transcript-out", "o", "", "write the transcript to this file when the lecture ends")
	lectureCmd.Flags().StringVarP(&transcriptFormat, "format", "f", "", "transcript format: json, text, markdown or yaml (default from the file extension)")

	_ = vp.BindPFlag("voice.engine", lectureCmd.Flags().Lookup("engine"))
	_ = vp.BindPFlag("audio.muted", lectureCmd.Flags().Lookup("muted"))
	_ = vp.BindPFlag("lecture.seed", lectureCmd.Flags().Lookup("seed"))
	_ = vp.BindPFlag("audio.format", lectureCmd.Flags().Lookup("audio-format"))
}
