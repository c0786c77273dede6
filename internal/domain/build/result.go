package build

import (
	"fmt"
	"time"

	"github.com/oshokin/version-stamper/internal/domain/stamp"
)

// Entry is a variant together with its version stamp.
type Entry struct {
	Variant Variant
	Stamp   stamp.VersionStamp
}

// Result is the outcome of one configuration pass.
// Every entry was stamped from Instant.
type Result struct {
	Instant time.Time
	Entries []Entry
}

// StampAll stamps every variant from the same instant.
// The first failure aborts the pass and no partial result is returned.
func StampAll(instant time.Time, variants []Variant) (*Result, error) {
	result := &Result{
		Instant: instant.UTC(),
		Entries: make([]Entry, 0, len(variants)),
	}

	for _, variant := range variants {
		versionStamp, err := stamp.Stamp(instant, variant.Kind)
		if err != nil {
			return nil, fmt.Errorf("stamp %s: %w", variant.Name, err)
		}

		result.Entries = append(result.Entries, Entry{
			Variant: variant,
			Stamp:   versionStamp,
		})
	}

	return result, nil
}
