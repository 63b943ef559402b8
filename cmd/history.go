package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bsrename/pkg/journal"
	"bsrename/pkg/usecase"
)

func buildHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history [journal]",
		Short: "Show the actions recorded in a journal",
		Long: `Reads a journal written by "bsrename apply --journal" and lists every
recorded action, including the one that failed if a run was aborted.

Examples:
  bsrename history renames.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}
}

func runHistory(_ *cobra.Command, args []string) error {
	execution, err := newUseCaseService().RunHistory(usecase.HistoryRequest{JournalPath: args[0]})
	if err != nil {
		return err
	}

	fmt.Println(styled(headerStyle, "Command: HISTORY"))
	fmt.Printf("Journal: %s\n", execution.JournalPath)
	fmt.Println()

	if len(execution.Entries) == 0 {
		fmt.Println("Journal is empty.")
		return nil
	}

	fmt.Println(historyTable(execution.Entries))
	fmt.Println()

	printSummary(
		fmt.Sprintf("Entries:      %d", len(execution.Entries)),
		fmt.Sprintf("Failed:       %d", len(journal.Failed(execution.Entries))),
	)

	return nil
}

func historyTable(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		status := "ok"
		if !entry.Success {
			status = "failed: " + entry.Error
		}

		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Type,
			entry.Source,
			entry.Dest,
			status,
		})
	}

	return renderTable(
		[]string{"#", "Time", "Action", "Source", "Destination", "Status"},
		rows,
		[]columnAlignment{alignRight},
	)
}
