package output

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format names an output encoding.
type Format string

const (
	// FormatProperties writes Java properties readable by Gradle.
	FormatProperties Format = "properties"
	// FormatEnv writes KEY=value lines for shells and CI systems.
	FormatEnv Format = "env"
	// FormatYAML writes a YAML document.
	FormatYAML Format = "yaml"
	// FormatJSON writes a JSON document.
	FormatJSON Format = "json"
	// FormatTable writes a human-readable table.
	FormatTable Format = "table"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatProperties, FormatEnv, FormatYAML, FormatJSON, FormatTable}
}

// ParseFormat converts a format name. An empty name yields an empty Format,
// which callers resolve with DetectFormat.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}

	if s == "yml" {
		return FormatYAML, nil
	}

	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// DetectFormat picks the table format for terminals and properties otherwise.
func DetectFormat(f *os.File) Format {
	if f == nil {
		return FormatProperties
	}

	fd := f.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}

	return FormatProperties
}
