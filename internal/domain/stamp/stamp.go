package stamp

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	// releaseNameLayout renders the date only, e.g. 2024.10.03.
	releaseNameLayout = "2006.01.02"
	// debugNameLayout renders the full UTC time, e.g. 2024.10.03 14:05:09 UTC.
	debugNameLayout = "2006.01.02 15:04:05 UTC"
)

// ErrInvalidInput is returned when an instant or variant cannot be stamped.
var ErrInvalidInput = errors.New("invalid input")

// VersionStamp is the pair of version identifiers attached to a build variant.
type VersionStamp struct {
	// Code is the UTC calendar date as a YYYYMMDD integer.
	Code int `json:"versionCode" yaml:"versionCode"`
	// Name is the human-readable version, formatted per variant.
	Name string `json:"versionName" yaml:"versionName"`
}

// Stamp computes the version identifiers of a build made at instant.
//
// The code depends only on the UTC calendar date, so every variant stamped
// from the same instant shares it. Stamp never reads the clock.
// The zero time.Time counts as unset and yields ErrInvalidInput, so the
// instant 0001-01-01T00:00:00Z itself cannot be stamped.
func Stamp(instant time.Time, variant BuildVariant) (VersionStamp, error) {
	if err := ValidateInstant(instant); err != nil {
		return VersionStamp{}, err
	}

	utc := instant.UTC()

	var name string

	switch variant {
	case Release:
		name = utc.Format(releaseNameLayout)
	case Debug:
		name = utc.Format(debugNameLayout)
	default:
		return VersionStamp{}, fmt.Errorf("%w: unknown build variant %q", ErrInvalidInput, variant)
	}

	return VersionStamp{
		Code: VersionCode(utc),
		Name: name,
	}, nil
}

// VersionCode returns the YYYYMMDD integer of the instant's UTC date.
// The instant is expected to have passed ValidateInstant.
func VersionCode(instant time.Time) int {
	year, month, day := instant.UTC().Date()

	return year*10000 + int(month)*100 + day
}

// ValidateInstant checks that the instant is set and has a four-digit UTC year.
// The zero time.Time, i.e. 0001-01-01T00:00:00Z, is treated as unset and rejected.
func ValidateInstant(instant time.Time) error {
	if instant.IsZero() {
		return fmt.Errorf("%w: instant is not set", ErrInvalidInput)
	}

	// Timestamp covers exactly 0001-01-01 through 9999-12-31 UTC.
	if err := timestamppb.New(instant).CheckValid(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return nil
}
