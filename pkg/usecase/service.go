// Package usecase provides application-level orchestration for CLI workflows.
package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bsrename/pkg/filelock"
	"bsrename/pkg/journal"
	"bsrename/pkg/progress"
	"bsrename/pkg/renamer"
	"bsrename/pkg/safepath"
)

// Options configures a Service.
type Options struct {
	Mode   renamer.Mode
	Logger *slog.Logger
}

// Service orchestrates command workflows without Cobra dependencies.
type Service struct {
	renamer *renamer.Renamer
	logger  *slog.Logger
}

// New creates a use-case service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		renamer: renamer.New(opts.Mode),
		logger:  logger,
	}
}

// Mode returns the rename variant the service runs.
func (s *Service) Mode() renamer.Mode {
	return s.renamer.Mode()
}

// PreviewRequest contains inputs for the preview workflow.
type PreviewRequest struct {
	TargetDir string
}

// PreviewExecution contains preview workflow outputs.
type PreviewExecution struct {
	RootDir  string
	Plan     renamer.Plan
	Duration time.Duration
}

// ApplyRequest contains inputs for the apply workflow.
type ApplyRequest struct {
	TargetDir   string
	JournalPath string
	OnProgress  progress.Callback
}

// ApplyExecution contains apply workflow outputs.
type ApplyExecution struct {
	RootDir     string
	Result      renamer.Result
	Duration    time.Duration
	JournalPath string
}

// RunPreview computes the plan for the target directory without touching it.
func (s *Service) RunPreview(req PreviewRequest) (PreviewExecution, error) {
	rootDir, err := resolveTarget(req.TargetDir)
	if err != nil {
		return PreviewExecution{}, err
	}

	start := time.Now()
	plan, err := s.renamer.ComputePlan(rootDir)
	if err != nil {
		return PreviewExecution{RootDir: rootDir}, fmt.Errorf("compute plan: %w", err)
	}

	execution := PreviewExecution{
		RootDir:  rootDir,
		Plan:     plan,
		Duration: time.Since(start),
	}

	s.logger.Debug("computed plan",
		"root", rootDir,
		"mode", s.renamer.Mode().String(),
		"entries", len(plan),
		"changes", len(plan.Changes()),
		"duration", execution.Duration,
	)

	return execution, nil
}

// RunApply applies the plan to the target directory. When a journal path is
// set, every attempted action is appended to it after the run, including the
// one that failed.
func (s *Service) RunApply(req ApplyRequest) (ApplyExecution, error) {
	rootDir, err := resolveTarget(req.TargetDir)
	if err != nil {
		return ApplyExecution{}, err
	}

	lock, err := filelock.Acquire(filelock.PathFor(rootDir))
	if err != nil {
		return ApplyExecution{RootDir: rootDir}, fmt.Errorf("another bsrename process is applying changes to %s: %w", rootDir, err)
	}
	defer func() {
		if closeErr := lock.Close(); closeErr != nil {
			s.logger.Warn("failed to release lock", "root", rootDir, "error", closeErr)
		}
	}()

	start := time.Now()
	result, applyErr := s.renamer.ApplyWithProgress(rootDir, req.OnProgress)

	execution := ApplyExecution{
		RootDir:  rootDir,
		Result:   result,
		Duration: time.Since(start),
	}

	s.logger.Debug("applied plan",
		"root", rootDir,
		"mode", s.renamer.Mode().String(),
		"renamed", result.RenamedCount,
		"deleted", result.DeletedCount,
		"unchanged", result.UnchangedCount,
		"duration", execution.Duration,
	)

	if req.JournalPath != "" {
		journalPath, journalErr := writeJournal(req.JournalPath, rootDir, result)
		execution.JournalPath = journalPath
		if journalErr != nil {
			return execution, errors.Join(applyErr, journalErr)
		}
	}

	return execution, applyErr
}

// HistoryRequest contains inputs for the history workflow.
type HistoryRequest struct {
	JournalPath string
}

// HistoryExecution contains history workflow outputs.
type HistoryExecution struct {
	JournalPath string
	Entries     []journal.Entry
}

// RunHistory reads back a journal written by RunApply.
func (s *Service) RunHistory(req HistoryRequest) (HistoryExecution, error) {
	if req.JournalPath == "" {
		return HistoryExecution{}, errors.New("journal path is required")
	}

	absPath, err := filepath.Abs(req.JournalPath)
	if err != nil {
		return HistoryExecution{}, fmt.Errorf("invalid journal path: %w", err)
	}

	entries, err := journal.Read(absPath)

	return HistoryExecution{JournalPath: absPath, Entries: entries}, err
}

func resolveTarget(targetDir string) (string, error) {
	info, err := os.Stat(targetDir)
	if err != nil {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", targetDir)
	}

	validator, err := safepath.New(targetDir)
	if err != nil {
		return "", fmt.Errorf("cannot create path validator: %w", err)
	}

	return validator.Root(), nil
}

// writeJournal appends one entry per attempted operation to the journal at
// path. The parent directory must exist.
func writeJournal(path, rootDir string, result renamer.Result) (string, error) {
	if len(result.Operations) == 0 {
		return "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid journal path: %w", err)
	}

	writer, err := journal.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("create journal writer: %w", err)
	}
	defer writer.Close()

	if err := writer.Append(journalEntries(rootDir, result)...); err != nil {
		return absPath, fmt.Errorf("write journal: %w", err)
	}

	return absPath, nil
}

// journalEntries converts apply operations to journal entries.
func journalEntries(rootDir string, result renamer.Result) []journal.Entry {
	entries := make([]journal.Entry, 0, len(result.Operations))
	for _, op := range result.Operations {
		entry := journal.Entry{
			Kind:    op.Kind.String(),
			Root:    rootDir,
			Source:  op.OriginalName,
			Success: op.Error == nil,
		}

		switch op.Action {
		case renamer.ActionDelete:
			entry.Type = journal.TypeDelete
		default:
			entry.Type = journal.TypeRename
			entry.Dest = op.NewName
		}

		if op.Error != nil {
			entry.Error = op.Error.Error()
		}

		entries = append(entries, entry)
	}
	return entries
}
