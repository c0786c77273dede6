package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/magiconair/properties"
	"github.com/subosito/gotenv"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/version-stamper/internal/domain/build"
)

const (
	// DefaultFileMode is used for stamp files; build tools of other users may read them.
	DefaultFileMode os.FileMode = 0o644

	// dirMode is used for missing parent directories of the output file.
	dirMode os.FileMode = 0o755

	keyVersionCode  = "versionCode"
	keyVersionName  = "versionName"
	keyBuildInstant = "buildInstant"
)

// document is the structured form shared by the yaml and json encoders.
type document struct {
	BuildInstant string            `yaml:"buildInstant"`
	Variants     []documentVariant `yaml:"variants"`
}

type documentVariant struct {
	Name          string `yaml:"name"`
	Flavor        string `yaml:"flavor,omitempty"`
	BuildType     string `yaml:"buildType"`
	ApplicationID string `yaml:"applicationId,omitempty"`
	AppName       string `yaml:"appName,omitempty"`
	VersionCode   int    `yaml:"versionCode"`
	VersionName   string `yaml:"versionName"`
}

// Write encodes the result in the given format to w.
func Write(w io.Writer, result *build.Result, format Format) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatProperties:
		data, err = encodeProperties(result)
	case FormatEnv:
		data, err = encodeEnv(result)
	case FormatYAML:
		data, err = yaml.Marshal(newDocument(result))
	case FormatJSON:
		data, err = encodeJSON(result)
	case FormatTable:
		data = encodeTable(result)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	return nil
}

// WriteFile encodes the result to path, replacing any previous file atomically.
func WriteFile(path string, result *build.Result, format Format) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	tmpName := tmp.Name()

	// Best-effort cleanup; after a successful rename the file is gone already.
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err = Write(tmp, result, format); err != nil {
		_ = tmp.Close()

		return err
	}

	if err = tmp.Chmod(DefaultFileMode); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("set output permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace output file: %w", err)
	}

	return nil
}

// pairs returns the flat key-value view of a result.
// A single variant uses bare keys, several variants are prefixed with their name.
func pairs(result *build.Result) [][2]string {
	kvs := [][2]string{{keyBuildInstant, formatInstant(result.Instant)}}

	single := len(result.Entries) == 1

	for _, entry := range result.Entries {
		codeKey, nameKey := keyVersionCode, keyVersionName
		if !single {
			codeKey = entry.Variant.Name + "." + keyVersionCode
			nameKey = entry.Variant.Name + "." + keyVersionName
		}

		kvs = append(kvs,
			[2]string{codeKey, strconv.Itoa(entry.Stamp.Code)},
			[2]string{nameKey, entry.Stamp.Name},
		)
	}

	return kvs
}

func encodeProperties(result *build.Result) ([]byte, error) {
	props := properties.NewProperties()
	// Values are literal; ${...} must never be expanded.
	props.DisableExpansion = true

	for _, kv := range pairs(result) {
		if _, _, err := props.Set(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := props.Write(&buf, properties.UTF8); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeEnv(result *build.Result) ([]byte, error) {
	kvs := pairs(result)
	env := make(gotenv.Env, len(kvs))

	for _, kv := range kvs {
		env[strcase.ToScreamingSnake(strings.ReplaceAll(kv[0], ".", "_"))] = kv[1]
	}

	data, err := gotenv.Marshal(env)
	if err != nil {
		return nil, err
	}

	return []byte(data + "\n"), nil
}

func encodeJSON(result *build.Result) ([]byte, error) {
	doc := newDocument(result)

	variants := make([]any, 0, len(doc.Variants))
	for _, v := range doc.Variants {
		variants = append(variants, map[string]any{
			"name":          v.Name,
			"flavor":        v.Flavor,
			"buildType":     v.BuildType,
			"applicationId": v.ApplicationID,
			"appName":       v.AppName,
			keyVersionCode:  v.VersionCode,
			keyVersionName:  v.VersionName,
		})
	}

	value, err := structpb.NewStruct(map[string]any{
		keyBuildInstant: doc.BuildInstant,
		"variants":      variants,
	})
	if err != nil {
		return nil, err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(value)
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

func encodeTable(result *build.Result) []byte {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle("Build instant: " + formatInstant(result.Instant))
	t.AppendHeader(table.Row{"Variant", "Flavor", "Build type", "Application ID", "Version code", "Version name"})

	for _, entry := range result.Entries {
		t.AppendRow(table.Row{
			entry.Variant.Name,
			entry.Variant.Flavor,
			entry.Variant.BuildType,
			entry.Variant.ApplicationID,
			entry.Stamp.Code,
			entry.Stamp.Name,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	return buf.Bytes()
}

func newDocument(result *build.Result) *document {
	doc := &document{
		BuildInstant: formatInstant(result.Instant),
		Variants:     make([]documentVariant, 0, len(result.Entries)),
	}

	for _, entry := range result.Entries {
		doc.Variants = append(doc.Variants, documentVariant{
			Name:          entry.Variant.Name,
			Flavor:        entry.Variant.Flavor,
			BuildType:     entry.Variant.BuildType,
			ApplicationID: entry.Variant.ApplicationID,
			AppName:       entry.Variant.AppName,
			VersionCode:   entry.Stamp.Code,
			VersionName:   entry.Stamp.Name,
		})
	}

	return doc
}

func formatInstant(instant time.Time) string {
	return instant.UTC().Format(time.RFC3339)
}
