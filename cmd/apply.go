package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bsrename/pkg/usecase"
)

var (
	assumeYes   bool
	journalPath string
)

// Overridden in tests.
var (
	confirmInput    io.Reader = os.Stdin
	stdinIsTerminal           = func() bool { return isTerminal(os.Stdin) }
)

var errConfirmationRequired = errors.New("stdin is not a terminal; pass --yes to apply without confirmation")

func buildApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [path]",
		Short: "Rename submission folders and delete index.html",
		Long: `Shows the preview, asks for confirmation, then deletes index.html and
renames every entry whose standardized name differs from its current one.

The directory is read again when applying, so changes made after the
preview are picked up. A name that is already taken gets _1, _2, ...
appended. The first failure stops the run; what was done stays done.

Examples:
  bsrename apply ./Assignment1                       # Confirm interactively
  bsrename apply --yes ./Assignment1                 # No prompt
  bsrename apply --journal renames.jsonl ./Assignment1`,
		Args: cobra.ExactArgs(1),
		RunE: runApply,
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Apply without asking for confirmation")
	cmd.Flags().StringVar(&journalPath, "journal", "", "Append a JSONL record of every action to this file")

	return cmd
}

func runApply(_ *cobra.Command, args []string) error {
	service := newUseCaseService()

	preview, err := service.RunPreview(usecase.PreviewRequest{TargetDir: args[0]})
	if err != nil {
		return err
	}

	printCommandHeader("APPLY", preview.RootDir)
	fmt.Println()

	changes := preview.Plan.Changes()
	if len(changes) == 0 {
		fmt.Println("No changes needed.")
		return nil
	}

	for _, item := range changes {
		printPlanItem(item)
	}
	fmt.Println()

	confirmed, err := confirmApply(len(changes))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Aborted, nothing was changed.")
		return nil
	}

	progress := startProgress("Applying", 2*time.Second)
	execution, applyErr := service.RunApply(usecase.ApplyRequest{
		TargetDir:   preview.RootDir,
		JournalPath: journalPath,
		OnProgress:  progress.Callback(),
	})
	progress.Stop()

	for _, op := range execution.Result.Operations {
		printOperation(op)
	}
	if len(execution.Result.Operations) > 0 {
		fmt.Println()
	}

	result := execution.Result
	printSummary(
		fmt.Sprintf("Entries:      %d", result.TotalEntries),
		fmt.Sprintf("Renamed:      %d", result.RenamedCount),
		fmt.Sprintf("Deleted:      %d", result.DeletedCount),
		fmt.Sprintf("Unchanged:    %d", result.UnchangedCount),
		fmt.Sprintf("Duration:     %v", execution.Duration.Round(time.Millisecond)),
	)
	if execution.JournalPath != "" {
		fmt.Printf("Journal:      %s\n", execution.JournalPath)
	}

	if applyErr != nil {
		return applyErr
	}

	fmt.Printf("Renamed %d item(s)\n", result.Count())

	return printRemaining(service, preview.RootDir)
}

// printRemaining previews the directory again and reports what still
// differs from its standardized name.
func printRemaining(service *usecase.Service, rootDir string) error {
	after, err := service.RunPreview(usecase.PreviewRequest{TargetDir: rootDir})
	if err != nil {
		return err
	}

	remaining := len(after.Plan.Changes())
	if remaining == 0 {
		fmt.Println("All entries are standardized.")
		return nil
	}

	fmt.Printf("%d item(s) still differ from their standardized name\n", remaining)
	return nil
}

func confirmApply(changes int) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !stdinIsTerminal() {
		return false, errConfirmationRequired
	}

	fmt.Printf("Apply %d change(s)? [y/N] ", changes)

	answer, err := bufio.NewReader(confirmInput).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
