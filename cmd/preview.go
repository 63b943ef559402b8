package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bsrename/pkg/renamer"
	"bsrename/pkg/usecase"
)

var (
	previewOutput string
	previewAll    bool
)

// planExport is the machine-readable form of a preview.
type planExport struct {
	Root  string       `json:"root" yaml:"root"`
	Mode  string       `json:"mode" yaml:"mode"`
	Items renamer.Plan `json:"items" yaml:"items"`
}

func buildPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [path]",
		Short: "Show what apply would rename and delete",
		Long: `Lists the immediate children of the directory and what apply would do
with each one. Nothing is changed.

Submission folders are renamed to "<name>_<timestamp>" in lowercase snake
case. A name written with a leading ". " keeps a leading dot. Other
folders are normalized as a whole. index.html is deleted.

Examples:
  bsrename preview ./Assignment1                # Text listing
  bsrename preview --all ./Assignment1          # Include unchanged entries
  bsrename preview -o table ./Assignment1       # Table
  bsrename preview -o json ./Assignment1 > plan.json

Before: "104840-170649 - Pal Patel - Nov 26, 2025 933 PM"
After:  "pal_patel_nov_26_2025_933_pm"`,
		Args: cobra.ExactArgs(1),
		RunE: runPreview,
	}

	cmd.Flags().StringVarP(&previewOutput, "output", "o", "text", "Output format: text, table, json or yaml")
	cmd.Flags().BoolVar(&previewAll, "all", false, "Include entries that keep their name")

	return cmd
}

func runPreview(_ *cobra.Command, args []string) error {
	format := strings.ToLower(strings.TrimSpace(previewOutput))
	switch format {
	case "text", "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q", previewOutput)
	}

	execution, err := newUseCaseService().RunPreview(usecase.PreviewRequest{TargetDir: args[0]})
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writePlanJSON(os.Stdout, execution)
	case "yaml":
		return writePlanYAML(os.Stdout, execution)
	}

	printCommandHeader("PREVIEW", execution.RootDir)
	fmt.Println()

	items := execution.Plan
	if !previewAll {
		items = items.Changes()
	}

	if format == "table" {
		if len(items) > 0 {
			fmt.Println(planTable(items))
			fmt.Println()
		}
	} else {
		for _, item := range items {
			printPlanItem(item)
		}
		if len(items) > 0 {
			fmt.Println()
		}
	}

	printPlanSummary(execution.Plan)

	if len(execution.Plan.Changes()) > 0 {
		fmt.Println()
		fmt.Println(applyHint())
	}

	return nil
}

func printPlanSummary(plan renamer.Plan) {
	changes := len(plan.Changes())

	printSummary(
		fmt.Sprintf("Entries:      %d", len(plan)),
		fmt.Sprintf("To rename:    %d", plan.Count(renamer.ActionRename)),
		fmt.Sprintf("To delete:    %d", plan.Count(renamer.ActionDelete)),
		fmt.Sprintf("Unchanged:    %d", plan.Count(renamer.ActionNoChange)),
	)

	if changes == 0 {
		fmt.Println("No changes needed.")
		return
	}
	fmt.Printf("Found %d item(s) to change\n", changes)
}

func planTable(items renamer.Plan) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Action.String(), item.OriginalName, item.Target()})
	}

	return renderTable([]string{"Action", "Original", "New"}, rows, nil)
}

func newPlanExport(execution usecase.PreviewExecution) planExport {
	items := execution.Plan
	if items == nil {
		items = renamer.Plan{}
	}

	return planExport{
		Root:  execution.RootDir,
		Mode:  currentMode().String(),
		Items: items,
	}
}

func writePlanJSON(w io.Writer, execution usecase.PreviewExecution) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(newPlanExport(execution)); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}

func writePlanYAML(w io.Writer, execution usecase.PreviewExecution) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(newPlanExport(execution)); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return encoder.Close()
}
