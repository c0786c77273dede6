package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/version-stamper/internal/config"
	"github.com/oshokin/version-stamper/internal/service/stamper"
)

// stampFile mirrors the YAML output consumed by packaging scripts.
type stampFile struct {
	BuildInstant string `yaml:"buildInstant"`
	Variants     []struct {
		Name          string `yaml:"name"`
		ApplicationID string `yaml:"applicationId"`
		AppName       string `yaml:"appName"`
		VersionCode   int    `yaml:"versionCode"`
		VersionName   string `yaml:"versionName"`
	} `yaml:"variants"`
}

// TestStamper_DistributionFlavors runs a pass over a project with play and oss flavors
// and verifies that every variant in the file shares the captured instant.
func TestStamper_DistributionFlavors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg := &config.Config{
		ApplicationID: "com.example.groceries",
		AppName:       "Groceries",
		BuildTypes:    []string{"release", "debug"},
		Flavors: []config.Flavor{
			{Name: "play", Dimension: "dist", ApplicationID: "com.example.groceries.play"},
			{Name: "oss", Dimension: "dist", ApplicationID: "com.example.groceries.oss", AppName: "Groceries OSS"},
		},
		Output: config.Output{Format: "yaml", Path: filepath.Join("build", "version.yaml")},
	}
	require.NoError(t, config.Save("", cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	instant := time.Date(2024, time.October, 3, 14, 5, 9, 0, time.UTC)

	require.NoError(t, stamper.Run(ctx, &stamper.Options{Clock: stamper.FixedClock(instant)}))

	contents, err := os.ReadFile(filepath.Join(dir, "build", "version.yaml"))
	require.NoError(t, err)

	var file stampFile
	require.NoError(t, yaml.Unmarshal(contents, &file))
	require.Equal(t, "2024-10-03T14:05:09Z", file.BuildInstant)
	require.Len(t, file.Variants, 4)

	byName := make(map[string]string, len(file.Variants))
	for _, v := range file.Variants {
		require.Equal(t, 20241003, v.VersionCode)
		byName[v.Name] = v.VersionName
	}

	require.Equal(t, map[string]string{
		"playRelease": "2024.10.03",
		"playDebug":   "2024.10.03 14:05:09 UTC",
		"ossRelease":  "2024.10.03",
		"ossDebug":    "2024.10.03 14:05:09 UTC",
	}, byName)

	require.Equal(t, "Groceries OSS", file.Variants[3].AppName)
	require.Equal(t, "com.example.groceries.play", file.Variants[0].ApplicationID)
}

// TestStamper_Idempotent checks that two passes with the same instant produce identical bytes.
func TestStamper_Idempotent(t *testing.T) {
	chdir(t, t.TempDir())

	run := func() []byte {
		var stdout bytes.Buffer

		err := stamper.Run(context.Background(), &stamper.Options{
			At:     "2024-01-01T00:00:00Z",
			Format: "json",
			Stdout: &stdout,
		})
		require.NoError(t, err)

		return stdout.Bytes()
	}

	first := run()
	second := run()

	require.JSONEq(t, string(first), string(second))
	require.Contains(t, string(first), "2024.01.01")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup, mirroring testing.T.Chdir from Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
