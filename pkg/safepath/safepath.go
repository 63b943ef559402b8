// Package safepath provides path validation to ensure renames and deletions
// only ever touch immediate children of a designated root directory.
package safepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates an attempt to access a path outside the root.
	ErrPathEscape = errors.New("path escapes root directory")
	// ErrNotChild indicates a path inside the root that is not one of its
	// immediate children, or a name that cannot name a child.
	ErrNotChild = errors.New("path is not an immediate child of root")
	// ErrInvalidRoot indicates the root path is invalid.
	ErrInvalidRoot = errors.New("invalid root directory")
)

// Validator ensures mutations stay on the immediate children of a root directory.
type Validator struct {
	root string // Absolute, cleaned, symlink-resolved path to root directory.
}

// New creates a new Validator for the given root directory.
// The root must be an existing directory.
func New(root string) (*Validator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	cleanRoot := filepath.Clean(resolvedRoot)

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	return &Validator{root: cleanRoot}, nil
}

// Root returns the absolute path to the root directory.
func (v *Validator) Root() string {
	return v.root
}

// Child returns the path of the root's child called name.
func (v *Validator) Child(name string) (string, error) {
	if !validChildName(name) {
		return "", fmt.Errorf("%w: %q", ErrNotChild, name)
	}

	return filepath.Join(v.root, name), nil
}

// ValidateChild checks that path names an immediate child of root. The
// parent directory is resolved through symlinks; the child itself is not,
// so a symlink child is validated as the link and not its target.
func (v *Validator) ValidateChild(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	cleanPath := filepath.Clean(absPath)
	if !validChildName(filepath.Base(cleanPath)) || cleanPath == v.root {
		return ErrNotChild
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(cleanPath))
	if err != nil {
		return fmt.Errorf("cannot resolve parent directory: %w", err)
	}
	parent = filepath.Clean(parent)

	if parent == v.root {
		return nil
	}
	if isSubPath(v.root, parent) {
		return ErrNotChild
	}

	return ErrPathEscape
}

// SafeRename renames an entry only if both source and destination are
// immediate children of root.
func (v *Validator) SafeRename(oldPath, newPath string) error {
	if err := v.ValidateChild(oldPath); err != nil {
		return fmt.Errorf("source %w: %s", err, oldPath)
	}
	if err := v.ValidateChild(newPath); err != nil {
		return fmt.Errorf("destination %w: %s", err, newPath)
	}

	return os.Rename(oldPath, newPath)
}

// SafeRemove removes a file only if it is an immediate child of root.
func (v *Validator) SafeRemove(path string) error {
	if err := v.ValidateChild(path); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	return os.Remove(path)
}

func validChildName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsRune(name, '/') && !strings.ContainsRune(name, filepath.Separator)
}

// isSubPath checks if child is a subpath of parent.
// Both paths must be absolute and clean.
func isSubPath(parent, child string) bool {
	if parent == child {
		return true
	}

	parentWithSep := parent
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}

	return strings.HasPrefix(child, parentWithSep)
}
