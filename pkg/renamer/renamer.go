// Package renamer standardizes the names of the immediate children of a
// directory and removes the manifest file Brightspace adds to bulk downloads.
//
// ComputePlan previews the work; Apply re-reads the directory and performs
// it. Nothing is carried between the two calls.
package renamer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bsrename/pkg/brightspace"
	"bsrename/pkg/collector"
	"bsrename/pkg/progress"
	"bsrename/pkg/safepath"
	"bsrename/pkg/sanitizer"
)

// DeleteMarker stands in for the new name of a deleted entry in plan pairs.
const DeleteMarker = "[DELETE]"

// deleteSet lists files that are removed instead of renamed.
// Matching is exact and case-sensitive.
var deleteSet = map[string]struct{}{
	"index.html": {},
}

// ErrApplyAborted wraps the filesystem error that stopped Apply.
var ErrApplyAborted = errors.New("apply aborted")

// IsDeleteTarget reports whether a file called name is removed by Apply.
func IsDeleteTarget(name string) bool {
	_, ok := deleteSet[name]
	return ok
}

// Mode selects which entries are renamed.
type Mode int

const (
	// ModeFolders renames subdirectories and ignores plain files.
	ModeFolders Mode = iota
	// ModeFiles renames plain files, keeping extensions, and ignores subdirectories.
	ModeFiles
)

func (m Mode) String() string {
	if m == ModeFiles {
		return "files"
	}
	return "folders"
}

// Renamer computes and applies rename plans for one mode.
type Renamer struct {
	mode Mode
}

// New creates a Renamer for the given mode.
func New(mode Mode) *Renamer {
	return &Renamer{mode: mode}
}

// Mode returns the renamer's mode.
func (r *Renamer) Mode() Mode {
	return r.mode
}

// ComputePlan lists what Apply would do to dir, in name order. A missing
// path or a path that is not a directory yields an empty plan.
func (r *Renamer) ComputePlan(dir string) (Plan, error) {
	if !isDirectory(dir) {
		slog.Debug("no plan for invalid root", "path", dir)
		return Plan{}, nil
	}

	entries, err := collector.Children(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	plan := make(Plan, 0, len(entries))
	for _, e := range entries {
		if item, ok := r.classify(e); ok {
			plan = append(plan, item)
		}
	}

	return plan, nil
}

// Apply deletes and renames the children of dir and returns the number of
// actions performed. See ApplyWithProgress.
func (r *Renamer) Apply(dir string) (int, error) {
	result, err := r.ApplyWithProgress(dir, nil)
	return result.Count(), err
}

// ApplyWithProgress re-reads dir, then deletes every delete-set file and
// renames every entry whose standardized name differs from its current one.
// A destination that is already taken gets "_1", "_2", ... appended until
// it is free.
//
// A missing path or a path that is not a directory is a no-op. The first
// filesystem error stops the run; actions already performed stay applied
// and are included in the returned Result.
func (r *Renamer) ApplyWithProgress(dir string, onProgress progress.Callback) (Result, error) {
	var result Result

	if !isDirectory(dir) {
		slog.Debug("nothing to apply for invalid root", "path", dir)
		return result, nil
	}

	validator, err := safepath.New(dir)
	if err != nil {
		return result, fmt.Errorf("failed to create path validator: %w", err)
	}

	progress.Emit(onProgress, progress.StageScanning, 0, 1)

	entries, err := collector.Children(validator.Root())
	if err != nil {
		return result, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	result.TotalEntries = len(entries)

	for i, e := range entries {
		progress.Emit(onProgress, progress.StageApplying, i, len(entries))

		item, ok := r.classify(e)
		if !ok {
			continue
		}

		var op Operation
		switch item.Action {
		case ActionNoChange:
			result.UnchangedCount++
			continue
		case ActionDelete:
			op = deleteEntry(validator, e)
		case ActionRename:
			op = r.renameEntry(validator, e, item.NewName)
		}

		result.Operations = append(result.Operations, op)
		if op.Error != nil {
			return result, fmt.Errorf("%w: %s %q: %w", ErrApplyAborted, op.Action, op.OriginalName, op.Error)
		}

		if op.Action == ActionDelete {
			result.DeletedCount++
		} else {
			result.RenamedCount++
		}
	}

	progress.Emit(onProgress, progress.StageApplying, len(entries), len(entries))

	return result, nil
}

// classify decides what happens to one entry. It reports false for entries
// the current mode ignores.
func (r *Renamer) classify(e collector.Entry) (PlanItem, bool) {
	item := PlanItem{OriginalName: e.Name, Kind: e.Kind}

	if !e.IsDir() && IsDeleteTarget(e.Name) {
		item.Action = ActionDelete
		return item, true
	}

	switch {
	case r.mode == ModeFolders && e.IsDir():
		item.NewName = brightspace.StandardizeFolderName(e.Name)
	case r.mode == ModeFiles && !e.IsDir():
		item.NewName = sanitizer.NormalizeFilename(e.Name)
	default:
		return item, false
	}

	if item.NewName == e.Name {
		item.Action = ActionNoChange
	} else {
		item.Action = ActionRename
	}

	return item, true
}

func deleteEntry(v *safepath.Validator, e collector.Entry) Operation {
	op := Operation{
		OriginalPath: e.Path,
		OriginalName: e.Name,
		Kind:         e.Kind,
		Action:       ActionDelete,
	}

	if err := v.SafeRemove(e.Path); err != nil {
		op.Error = err
		return op
	}

	slog.Debug("deleted entry", "path", e.Path)
	return op
}

func (r *Renamer) renameEntry(v *safepath.Validator, e collector.Entry, name string) Operation {
	op := Operation{
		OriginalPath: e.Path,
		OriginalName: e.Name,
		Kind:         e.Kind,
		Action:       ActionRename,
	}

	op.NewName = r.freeName(v.Root(), name)

	newPath, err := v.Child(op.NewName)
	if err != nil {
		op.Error = err
		return op
	}
	op.NewPath = newPath

	if op.NewName != name {
		slog.Debug("destination taken, using suffix", "wanted", name, "chosen", op.NewName)
	}

	if err := v.SafeRename(e.Path, op.NewPath); err != nil {
		op.Error = err
		return op
	}

	slog.Debug("renamed entry", "src", e.Name, "dst", op.NewName)
	return op
}

// freeName returns name, or the first suffixed variant of it, that does not
// exist in dir. Files keep their extension after the suffix.
func (r *Renamer) freeName(dir, name string) string {
	keepExt := r.mode == ModeFiles

	for attempt := 0; ; attempt++ {
		candidate := sanitizer.ResolveNameConflict(name, attempt, keepExt)
		if !exists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}
}

// exists treats only a successful Lstat as taken, so an unreadable path is
// reported by the rename itself instead of being skipped forever.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
