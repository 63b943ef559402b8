// Package collector lists the immediate children of a directory.
package collector

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Kind classifies a directory entry.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry holds metadata about one child of the scanned directory.
type Entry struct {
	Path string // Full path to the entry
	Name string // Original name
	Kind Kind   // File or directory, symlinks resolved
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDir
}

// Children returns the regular files and directories directly inside dir,
// sorted by name. Symlinks are classified by their target; anything that is
// neither a regular file nor a directory is skipped, as is any link that
// cannot be resolved (dangling, looping or unreadable).
func Children(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		fullPath := filepath.Join(dir, dirEntry.Name())

		info, err := os.Stat(fullPath)
		if err != nil {
			slog.Debug("skipped an unresolvable entry", "path", fullPath, "error", err)
			continue
		}

		var kind Kind
		switch {
		case info.IsDir():
			kind = KindDir
		case info.Mode().IsRegular():
			kind = KindFile
		default:
			slog.Debug("skipped a special file", "path", fullPath, "mode", info.Mode().String())
			continue
		}

		entries = append(entries, Entry{
			Path: fullPath,
			Name: dirEntry.Name(),
			Kind: kind,
		})
	}

	return entries, nil
}
