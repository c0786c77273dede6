package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/require"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/version-stamper/internal/domain/build"
	"github.com/oshokin/version-stamper/internal/domain/stamp"
)

var testInstant = time.Date(2024, time.October, 3, 14, 5, 9, 0, time.UTC)

func singleResult(t *testing.T) *build.Result {
	t.Helper()

	variants := build.Matrix(build.Defaults{}, nil, []build.BuildType{{Name: "debug", Variant: stamp.Debug}})

	result, err := build.StampAll(testInstant, variants)
	require.NoError(t, err)

	return result
}

func flavoredResult(t *testing.T) *build.Result {
	t.Helper()

	variants := build.Matrix(
		build.Defaults{ApplicationID: "com.example.app", AppName: "Example"},
		[]build.Flavor{{Name: "play", Dimension: "dist"}, {Name: "oss", Dimension: "dist"}},
		[]build.BuildType{{Name: "release", Variant: stamp.Release}, {Name: "debug", Variant: stamp.Debug}},
	)

	result, err := build.StampAll(testInstant, variants)
	require.NoError(t, err)

	return result
}

func render(t *testing.T, result *build.Result, format Format) string {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, Write(&buf, result, format))

	return buf.String()
}

// TestPropertiesSingleVariant checks the bare keys Gradle reads.
func TestPropertiesSingleVariant(t *testing.T) {
	t.Parallel()

	want := "buildInstant = 2024-10-03T14:05:09Z\n" +
		"versionCode = 20241003\n" +
		"versionName = 2024.10.03 14:05:09 UTC\n"

	require.Equal(t, want, render(t, singleResult(t), FormatProperties))
}

// TestPropertiesMultipleVariants checks that keys are prefixed with the variant name.
func TestPropertiesMultipleVariants(t *testing.T) {
	t.Parallel()

	out := render(t, flavoredResult(t), FormatProperties)
	require.Contains(t, out, "playRelease.versionCode = 20241003\n")
	require.Contains(t, out, "playRelease.versionName = 2024.10.03\n")
	require.Contains(t, out, "ossDebug.versionName = 2024.10.03 14:05:09 UTC\n")
}

// TestEnv checks upper snake case keys and quoting of values with spaces.
func TestEnv(t *testing.T) {
	t.Parallel()

	out := render(t, singleResult(t), FormatEnv)
	require.Contains(t, out, "VERSION_CODE=20241003\n")
	require.Contains(t, out, "VERSION_NAME=\"2024.10.03 14:05:09 UTC\"\n")
	require.Contains(t, out, "BUILD_INSTANT=\"2024-10-03T14:05:09Z\"\n")

	out = render(t, flavoredResult(t), FormatEnv)
	require.Contains(t, out, "PLAY_RELEASE_VERSION_NAME=\"2024.10.03\"\n")
}

// TestYAML decodes the document back and checks its content.
func TestYAML(t *testing.T) {
	t.Parallel()

	var doc document

	require.NoError(t, yaml.Unmarshal([]byte(render(t, flavoredResult(t), FormatYAML)), &doc))
	require.Equal(t, "2024-10-03T14:05:09Z", doc.BuildInstant)
	require.Len(t, doc.Variants, 4)
	require.Equal(t, "playRelease", doc.Variants[0].Name)
	require.Equal(t, 20241003, doc.Variants[0].VersionCode)
	require.Equal(t, "2024.10.03", doc.Variants[0].VersionName)
	require.Equal(t, "com.example.app", doc.Variants[3].ApplicationID)
}

// TestJSON decodes the document with encoding/json since protojson spacing is unstable.
func TestJSON(t *testing.T) {
	t.Parallel()

	var doc struct {
		BuildInstant string `json:"buildInstant"`
		Variants     []struct {
			Name        string `json:"name"`
			VersionCode int    `json:"versionCode"`
			VersionName string `json:"versionName"`
		} `json:"variants"`
	}

	require.NoError(t, json.Unmarshal([]byte(render(t, flavoredResult(t), FormatJSON)), &doc))
	require.Equal(t, "2024-10-03T14:05:09Z", doc.BuildInstant)
	require.Len(t, doc.Variants, 4)
	require.Equal(t, "ossDebug", doc.Variants[3].Name)
	require.Equal(t, 20241003, doc.Variants[3].VersionCode)
	require.Equal(t, "2024.10.03 14:05:09 UTC", doc.Variants[3].VersionName)
}

// TestTable checks that every variant appears in the rendered table.
func TestTable(t *testing.T) {
	t.Parallel()

	out := render(t, flavoredResult(t), FormatTable)
	for _, s := range []string{"playRelease", "ossDebug", "20241003", "2024.10.03 14:05:09 UTC", "com.example.app"} {
		require.Contains(t, out, s)
	}
}

// TestWriteUnknownFormat ensures unsupported formats are rejected.
func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.ErrorIs(t, Write(&buf, singleResult(t), Format("xml")), ErrUnknownFormat)
	require.Zero(t, buf.Len())
}

// TestWriteFile verifies parent directories are created and old content is replaced.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "build", "version.properties")

	require.NoError(t, WriteFile(path, flavoredResult(t), FormatYAML))
	require.NoError(t, WriteFile(path, singleResult(t), FormatProperties))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "versionCode = 20241003")
	require.NotContains(t, string(contents), "variants:")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestParseFormat checks names, aliases and unknown values.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}

	got, err := ParseFormat(" YML ")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, got)

	got, err = ParseFormat("")
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

// TestPropertiesReadBack parses the output the way java.util.Properties would.
func TestPropertiesReadBack(t *testing.T) {
	t.Parallel()

	props, err := properties.LoadString(render(t, flavoredResult(t), FormatProperties))
	require.NoError(t, err)
	require.Equal(t, 20241003, props.MustGetInt("ossRelease.versionCode"))
	require.Equal(t, "2024.10.03 14:05:09 UTC", props.MustGetString("playDebug.versionName"))
	require.Equal(t, "2024-10-03T14:05:09Z", props.MustGetString("buildInstant"))
}

// TestEnvReadBack parses the env output with the same dotenv library.
func TestEnvReadBack(t *testing.T) {
	t.Parallel()

	env, err := gotenv.StrictParse(strings.NewReader(render(t, flavoredResult(t), FormatEnv)))
	require.NoError(t, err)
	require.Equal(t, "20241003", env["OSS_DEBUG_VERSION_CODE"])
	require.Equal(t, "2024.10.03 14:05:09 UTC", env["OSS_DEBUG_VERSION_NAME"])
}

// TestWriteVariants checks that the matrix table lists every variant.
func TestWriteVariants(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	variants := make([]build.Variant, 0, 4)
	for _, entry := range flavoredResult(t).Entries {
		variants = append(variants, entry.Variant)
	}

	WriteVariants(&buf, variants)
	require.Contains(t, buf.String(), "playRelease")
	require.Contains(t, buf.String(), "ossDebug")
}
