package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SubmissionFolders are folder names as Brightspace writes them in a bulk
// download, mapped to their standardized form.
var SubmissionFolders = map[string]string{
	"104840-170649 - Pal Patel - Nov 26, 2025 933 PM":                "pal_patel_nov_26_2025_933_pm",
	"104860-170649 - . Karanvir Singh - Nov 20, 2025 1059 PM":        ".karanvir_singh_nov_20_2025_1059_pm",
	"104848-170649 - Jueszel Morgan-Mcleggon - Nov 28, 2025 1036 PM": "jueszel_morgan_mcleggon_nov_28_2025_1036_pm",
	"80864-170649 - Anmolpreet Singh Panaich - Nov 28, 2025 1125 AM": "anmolpreet_singh_panaich_nov_28_2025_1125_am",
	"24573-170649 - Boluwatife Akinrinola - Nov 28, 2025 1134 PM":    "boluwatife_akinrinola_nov_28_2025_1134_pm",
}

func CreateFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(t, err)

	err = os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
}

func CreateDir(t *testing.T, path string) {
	t.Helper()

	err := os.MkdirAll(path, 0o755)
	require.NoError(t, err)
}

// CreateSubmission creates a submission folder with one file inside, the way
// a bulk download lays it out.
func CreateSubmission(t *testing.T, root, folderName string) string {
	t.Helper()

	dir := filepath.Join(root, folderName)
	CreateFile(t, filepath.Join(dir, "assignment.pdf"), "submission of "+folderName)

	return dir
}

// Names returns the names of the immediate children of dir.
func Names(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
