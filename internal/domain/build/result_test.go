package build

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/version-stamper/internal/domain/stamp"
)

// TestStampAllSharesInstant checks that one pass yields one code and per-kind names.
func TestStampAllSharesInstant(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, time.October, 3, 14, 5, 9, 0, time.UTC)
	variants := Matrix(Defaults{}, distributionFlavors(), standardBuildTypes())

	result, err := StampAll(instant, variants)
	require.NoError(t, err)
	require.Equal(t, instant, result.Instant)
	require.Len(t, result.Entries, 4)

	for _, entry := range result.Entries {
		require.Equal(t, 20241003, entry.Stamp.Code)

		switch entry.Variant.Kind {
		case stamp.Release:
			require.Equal(t, "2024.10.03", entry.Stamp.Name)
		case stamp.Debug:
			require.Equal(t, "2024.10.03 14:05:09 UTC", entry.Stamp.Name)
		}
	}
}

// TestStampAllAborts ensures a single failure discards the whole pass.
func TestStampAllAborts(t *testing.T) {
	t.Parallel()

	result, err := StampAll(time.Time{}, Matrix(Defaults{}, nil, standardBuildTypes()))
	require.ErrorIs(t, err, stamp.ErrInvalidInput)
	require.Nil(t, result)
}
