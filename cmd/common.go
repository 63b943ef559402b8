package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"bsrename/pkg/progress"
	"bsrename/pkg/renamer"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	renameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	keepStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorEnabled() bool {
	return !noColor && isTerminal(os.Stdout)
}

func styled(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

func printCommandHeader(command, rootDir string) {
	fmt.Println(styled(headerStyle, "Command: "+command))
	fmt.Printf("Root directory: %s\n", rootDir)
	fmt.Printf("Mode: %s\n", currentMode())
}

func printPlanItem(item renamer.PlanItem) {
	switch item.Action {
	case renamer.ActionDelete:
		fmt.Printf("%s %s\n", styled(deleteStyle, "DELETE:"), item.OriginalName)
	case renamer.ActionRename:
		fmt.Printf("%s %s\n", styled(renameStyle, "RENAME:"), item.OriginalName)
		fmt.Printf("%s %s\n", styled(targetStyle, "    TO:"), item.NewName)
	default:
		fmt.Printf("%s %s\n", styled(keepStyle, "  KEEP:"), item.OriginalName)
	}
}

func printOperation(op renamer.Operation) {
	if op.Error != nil {
		fmt.Printf("%s %s: %v\n", styled(errorStyle, "ERROR:"), op.OriginalName, op.Error)
		return
	}

	if op.Action == renamer.ActionDelete {
		fmt.Printf("%s %s\n", styled(deleteStyle, "DELETED:"), op.OriginalName)
		return
	}

	fmt.Printf("%s %s\n", styled(renameStyle, "RENAMED:"), op.OriginalName)
	fmt.Printf("%s %s\n", styled(targetStyle, "     TO:"), op.NewName)
}

func printSummary(lines ...string) {
	fmt.Println(styled(headerStyle, "=== Summary ==="))
	for _, line := range lines {
		fmt.Println(line)
	}
}

func applyHint() string {
	if filesMode {
		return `Run "bsrename apply --files" to apply changes.`
	}
	return `Run "bsrename apply" to apply changes.`
}

type progressReporter struct {
	mu        sync.Mutex
	stage     string
	processed int
	total     int

	out      io.Writer
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// startProgress prints the latest reported stage to stderr every interval.
// Nothing is printed unless verbose output is on.
func startProgress(label string, interval time.Duration) *progressReporter {
	p := &progressReporter{
		out:    os.Stderr,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if !verbose {
		close(p.doneCh)
		return p
	}

	startTime := time.Now()
	ticker := time.NewTicker(interval)

	go func() {
		defer close(p.doneCh)
		for {
			select {
			case <-ticker.C:
				stage, processed, total := p.snapshot()
				elapsed := time.Since(startTime).Round(time.Second)
				if total > 0 {
					fmt.Fprintf(p.out, "%s... %s %d/%d, %s elapsed\n", label, stage, processed, total, elapsed)
				} else {
					fmt.Fprintf(p.out, "%s... %s elapsed\n", label, elapsed)
				}
			case <-p.stopCh:
				ticker.Stop()
				return
			}
		}
	}()

	return p
}

// Callback returns a progress callback that records into p.
func (p *progressReporter) Callback() progress.Callback {
	return p.Report
}

func (p *progressReporter) Report(stage string, processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage = stage
	p.processed = processed
	p.total = total
}

func (p *progressReporter) snapshot() (string, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stage, p.processed, p.total
}

func (p *progressReporter) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		<-p.doneCh
	})
}
