package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"

	"github.com/studyloop/lecturecast/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the lecturecast config file",
	Long:    paragraph(fmt.Sprintf("\n%s the lecturecast config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created with the defaults.", keyword("Edit"))),
	Example: paragraph("lecturecast config\nlecturecast config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := ensureConfigFile()
		if err != nil {
			return err
		}

		c, err := editor.Cmd("Lecturecast", path)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", path)
		return nil
	},
}

// ensureConfigFile returns the config file in use, writing the defaults
// to the first search dir when there is none yet.
func ensureConfigFile() (string, error) {
	file := configFile
	if file == "" {
		file = vp.ConfigFileUsed()
	}
	if file == "" {
		dirs, err := config.SearchDirs()
		if err != nil {
			return "", err
		}
		if len(dirs) == 0 {
			return "", fmt.Errorf("could not find configuration directory")
		}
		file = filepath.Join(dirs[0], config.FileName)
	}

	if ext := path.Ext(file); ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	created, err := config.EnsureFile(file)
	if err != nil {
		return "", err
	}
	if created {
		fmt.Fprintln(os.Stderr, subtle("Created "+file))
	}
	return file, nil
}
