// Package main provides the entry point for the lecturecast CLI.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/studyloop/lecturecast/internal/config"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool

	vp      = newViper()
	cfg     config.Config
	secrets config.Secrets

	rootCmd = &cobra.Command{
		Use:   "lecturecast",
		Short: "Narrated algebra lectures in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nNarrated algebra lectures in your terminal, %s!", keyword("questions welcome")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
	}
)

// validateOptions reads the config file and the environment into cfg.
func validateOptions(cmd *cobra.Command) error {
	if configFile != "" {
		vp.SetConfigFile(configFile)
	}
	if err := config.ReadIn(vp); err != nil {
		return err //nolint:wrapcheck
	}

	var err error
	cfg, err = config.Load(vp)
	if err != nil {
		return err //nolint:wrapcheck
	}
	secrets, err = config.LoadSecrets()
	if err != nil {
		return err //nolint:wrapcheck
	}
	applyLogLevel(cfg.Log.Level)

	if vp.ConfigFileUsed() != "" && cmd.Name() == lectureCmd.Name() {
		config.Watch(vp, func(c config.Config, _ fsnotify.Event) {
			applyLogLevel(c.Log.Level)
		})
	}
	log.Debug("configuration loaded", "file", vp.ConfigFileUsed(), "engine", cfg.Voice.Engine, "events", cfg.Events.Backend)
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches the user config dirs for "+config.FileName+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	_ = vp.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		configCmd,
		manCmd,
		lectureCmd,
		sayCmd,
		normalizeCmd,
		chunkCmd,
		transcriptCmd,
		studyCmd,
	)
}

// newViper searches the default config locations. Flags are bound to it
// in the command files' init functions.
func newViper() *viper.Viper {
	dirs, err := config.SearchDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}
	return config.NewViper(dirs...)
}
