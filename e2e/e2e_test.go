package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"
)

const (
	palPatel       = "104840-170649 - Pal Patel - Nov 26, 2025 933 PM"
	palPatelStd    = "pal_patel_nov_26_2025_933_pm"
	karanvirSingh  = "104860-170649 - . Karanvir Singh - Nov 20, 2025 1059 PM"
	karanvirStd    = ".karanvir_singh_nov_20_2025_1059_pm"
	morganMcleggon = "104848-170649 - Jueszel Morgan-Mcleggon - Nov 28, 2025 1036 PM"
	morganStd      = "jueszel_morgan_mcleggon_nov_28_2025_1036_pm"
)

var builtBinaryPath string

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

func (r cmdResult) combinedOutput() string {
	return r.stdout + r.stderr
}

func resolveRepoRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve repo root")
	}

	root := filepath.Dir(filepath.Dir(filename))
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve repo root: %w", err)
	}

	return absRoot, nil
}

func TestMain(m *testing.M) {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to initialize e2e tests: %v\n", err)
		os.Exit(1)
	}

	binDir, err := os.MkdirTemp("", "bsrename-e2e-bin-*")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to create temp directory for binary: %v\n", err)
		os.Exit(1)
	}

	binPath := filepath.Join(binDir, "bsrename")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to build bsrename: %v\n%s\n", err, string(output))
		_ = os.RemoveAll(binDir)
		os.Exit(1)
	}

	builtBinaryPath = binPath

	exitCode := m.Run()
	_ = os.RemoveAll(binDir)
	os.Exit(exitCode)
}

func binaryPath(t *testing.T) string {
	t.Helper()

	if builtBinaryPath == "" {
		t.Fatal("binary path not initialized")
	}

	return builtBinaryPath
}

func runBinary(t *testing.T, binPath string, args ...string) cmdResult {
	t.Helper()

	timeout := 30 * time.Second
	if deadline, ok := t.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binPath, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		if stderr.Len() > 0 && !strings.HasSuffix(stderr.String(), "\n") {
			stderr.WriteString("\n")
		}
		stderr.WriteString("command timed out after " + timeout.String())
	}

	return cmdResult{
		stdout: stdout.String(),
		stderr: stderr.String(),
		err:    err,
	}
}

func mustSucceed(t *testing.T, result cmdResult, what string) {
	t.Helper()

	if result.err != nil {
		t.Fatalf("%s failed: %v\n%s", what, result.err, result.combinedOutput())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func writeSubmission(t *testing.T, root, folder string) {
	t.Helper()

	writeFile(t, filepath.Join(root, folder, "assignment.pdf"), "submission of "+folder)
}

func assertExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected path to exist: %s (error: %v)", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Fatalf("expected path to be missing: %s", path)
	} else if !os.IsNotExist(err) {
		t.Fatalf("expected path to be missing: %s (unexpected error: %v)", path, err)
	}
}

func assertCommandFailed(t *testing.T, result cmdResult, keywords ...string) {
	t.Helper()

	if result.err == nil {
		t.Fatalf("expected command to fail\nstdout:\n%s\nstderr:\n%s", result.stdout, result.stderr)
	}

	combined := strings.ToLower(result.combinedOutput())
	for _, keyword := range keywords {
		if !strings.Contains(combined, strings.ToLower(keyword)) {
			t.Fatalf("expected output to contain %q\n%s", keyword, result.combinedOutput())
		}
	}
}

func listNames(t *testing.T, root string) []string {
	t.Helper()

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("failed to read directory %s: %v", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names
}

func assertNames(t *testing.T, root string, want ...string) {
	t.Helper()

	sort.Strings(want)
	got := listNames(t, root)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected directory contents\nwant: %q\ngot:  %q", want, got)
	}
}

func TestEndToEndPreviewAndApply(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeSubmission(t, root, palPatel)
	writeSubmission(t, root, karanvirSingh)
	writeSubmission(t, root, morganMcleggon)

	preview := runBinary(t, binPath, "preview", root)
	mustSucceed(t, preview, "preview")

	for _, want := range []string{
		"DELETE: index.html",
		"RENAME: " + palPatel,
		"    TO: " + palPatelStd,
		"    TO: " + karanvirStd,
		"    TO: " + morganStd,
		"Found 4 item(s) to change",
	} {
		if !strings.Contains(preview.stdout, want) {
			t.Fatalf("expected %q in preview output\n%s", want, preview.stdout)
		}
	}

	assertNames(t, root, "index.html", palPatel, karanvirSingh, morganMcleggon)

	apply := runBinary(t, binPath, "apply", "--yes", root)
	mustSucceed(t, apply, "apply")

	if !strings.Contains(apply.stdout, "Renamed 4 item(s)") {
		t.Fatalf("expected apply count in output\n%s", apply.stdout)
	}

	assertNames(t, root, palPatelStd, karanvirStd, morganStd)
	assertExists(t, filepath.Join(root, karanvirStd, "assignment.pdf"))
}

func TestEndToEndApply_Idempotent(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeSubmission(t, root, palPatel)

	mustSucceed(t, runBinary(t, binPath, "apply", "--yes", root), "first apply")

	second := runBinary(t, binPath, "apply", "--yes", root)
	mustSucceed(t, second, "second apply")

	if !strings.Contains(second.stdout, "No changes needed.") {
		t.Fatalf("expected second apply to be a no-op\n%s", second.stdout)
	}

	assertNames(t, root, palPatelStd)
}

func TestEndToEndApply_CollisionNeverOverwrites(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, palPatelStd, "existing.txt"), "already here")
	writeSubmission(t, root, palPatel)

	mustSucceed(t, runBinary(t, binPath, "apply", "--yes", root), "apply")

	assertNames(t, root, palPatelStd, palPatelStd+"_1")
	assertExists(t, filepath.Join(root, palPatelStd, "existing.txt"))
	assertExists(t, filepath.Join(root, palPatelStd+"_1", "assignment.pdf"))
}

func TestEndToEndApply_RequiresConfirmation(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()

	writeSubmission(t, root, palPatel)

	result := runBinary(t, binPath, "apply", root)
	assertCommandFailed(t, result, "--yes")

	assertNames(t, root, palPatel)
}

func TestEndToEndFilesMode(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "Final Essay.DOCX"), "essay")
	writeFile(t, filepath.Join(root, "final-essay.docx"), "another essay")
	writeSubmission(t, root, palPatel)

	mustSucceed(t, runBinary(t, binPath, "apply", "--files", "--yes", root), "apply --files")

	assertNames(t, root, palPatel, "final_essay.docx", "final_essay_1.docx")
}

func TestEndToEndPreviewJSON(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeSubmission(t, root, palPatel)

	result := runBinary(t, binPath, "preview", "-o", "json", root)
	mustSucceed(t, result, "preview -o json")

	var export struct {
		Items []struct {
			Original string `json:"original"`
			New      string `json:"new"`
			Action   string `json:"action"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(result.stdout), &export); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, result.stdout)
	}

	if len(export.Items) != 2 {
		t.Fatalf("expected 2 plan items, got %d\n%s", len(export.Items), result.stdout)
	}
	if export.Items[0].New != palPatelStd || export.Items[0].Action != "rename" {
		t.Fatalf("unexpected first item: %+v", export.Items[0])
	}
	if export.Items[1].Original != "index.html" || export.Items[1].Action != "delete" {
		t.Fatalf("unexpected second item: %+v", export.Items[1])
	}
}

func TestEndToEndJournalAndHistory(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()
	journalPath := filepath.Join(t.TempDir(), "renames.jsonl")

	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeSubmission(t, root, palPatel)

	mustSucceed(t, runBinary(t, binPath, "apply", "--yes", "--journal", journalPath, root), "apply --journal")
	assertExists(t, journalPath)

	history := runBinary(t, binPath, "history", journalPath)
	mustSucceed(t, history, "history")

	for _, want := range []string{"index.html", palPatel, palPatelStd, "Entries:      2"} {
		if !strings.Contains(history.stdout, want) {
			t.Fatalf("expected %q in history output\n%s", want, history.stdout)
		}
	}
}

func TestEndToEndInvalidTargetPaths(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()

	filePath := filepath.Join(root, "file.txt")
	writeFile(t, filePath, "content")

	fileTarget := runBinary(t, binPath, "preview", filePath)
	assertCommandFailed(t, fileTarget, "directory", filePath)

	missingPath := filepath.Join(root, "missing")
	missingTarget := runBinary(t, binPath, "apply", "--yes", missingPath)
	assertCommandFailed(t, missingTarget, "cannot access", "directory", missingPath)
}

func TestEndToEndSymlinkIsRenamedNotFollowed(t *testing.T) {
	binPath := binaryPath(t)
	root := t.TempDir()
	outside := t.TempDir()

	outsideFile := filepath.Join(outside, "Outside Folder", "keep.txt")
	writeFile(t, outsideFile, "outside")

	linkPath := filepath.Join(root, "Linked Folder")
	if err := os.Symlink(filepath.Join(outside, "Outside Folder"), linkPath); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	mustSucceed(t, runBinary(t, binPath, "apply", "--yes", root), "apply")

	assertMissing(t, linkPath)
	info, err := os.Lstat(filepath.Join(root, "linked_folder"))
	if err != nil {
		t.Fatalf("expected renamed link: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected renamed entry to still be a symlink")
	}

	assertExists(t, outsideFile)
	assertNames(t, outside, "Outside Folder")
}
