package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectFormat checks that regular files and a missing file get the properties format.
func TestDetectFormat(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "stdout.txt"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = f.Close()
	})

	require.Equal(t, FormatProperties, DetectFormat(f))
	require.Equal(t, FormatProperties, DetectFormat(nil))
}
