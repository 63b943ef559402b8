package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bsrename/pkg/logging"
	"bsrename/pkg/renamer"
	"bsrename/pkg/usecase"
)

var (
	verbose   bool
	filesMode bool
	logFormat string
	noColor   bool
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bsrename",
		Short: "Standardize the folder names of a Brightspace bulk download",
		Long: `bsrename cleans up an extracted Brightspace assignment download.

Brightspace names every submission folder like
  104840-170649 - Pal Patel - Nov 26, 2025 933 PM
and drops an index.html manifest next to them. bsrename renames each folder
to the student's name and submission time in lowercase snake case
  pal_patel_nov_26_2025_933_pm
and deletes index.html.

Commands:
  preview   Shows what would be renamed and deleted
  apply     Renames and deletes, after confirmation
  history   Shows a journal written by apply --journal

Examples:
  # Preview the changes (recommended first step)
	  bsrename preview ./Assignment1

  # Apply them
	  bsrename apply ./Assignment1

  # Normalize plain file names instead of folder names
	  bsrename preview --files ./Assignment1

Safety:
  Only the immediate children of the given directory are touched.
  Existing entries are never overwritten; a clashing name gets _1, _2, ...`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogging()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVar(&filesMode, "files", false, "Rename plain files instead of folders")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func setupLogging() error {
	level := "warn"
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: logFormat,
		Writer: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("invalid --log-format: %w", err)
	}

	slog.SetDefault(logger)
	return nil
}

func currentMode() renamer.Mode {
	if filesMode {
		return renamer.ModeFiles
	}
	return renamer.ModeFolders
}

func newUseCaseService() *usecase.Service {
	return usecase.New(usecase.Options{
		Mode:   currentMode(),
		Logger: slog.Default(),
	})
}
