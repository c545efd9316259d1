package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearSuffix(t *testing.T) {
	assert.Equal(t, "25", YearSuffix(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "26", YearSuffix(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "00", YearSuffix(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "INV-00001/25", Format(1, "25"))
	assert.Equal(t, "INV-00042/26", Format(42, "26"))
	assert.Equal(t, "INV-99999/25", Format(99999, "25"))
	// Sequences past the padding width keep growing rather than wrapping.
	assert.Equal(t, "INV-100000/25", Format(100000, "25"))
}

func TestParse(t *testing.T) {
	seq, suffix, err := Parse("INV-00042/25")
	require.NoError(t, err)
	assert.Equal(t, 42, seq)
	assert.Equal(t, "25", suffix)

	cases := []string{
		"00042/25",      // missing prefix
		"INV-00042",     // missing suffix separator
		"INV-abcde/25",  // non-numeric sequence
		"INV-00000/25",  // non-positive sequence
		"INV--0042/25",  // negative sequence
	}
	for _, c := range cases {
		_, _, err := Parse(c)
		assert.Error(t, err, "Parse(%q) should fail", c)
	}
}

func TestOrderingAcrossWidths(t *testing.T) {
	// The store picks the latest allocated number by (length, lexicographic)
	// order. A widened sequence must outrank the highest padded one under that
	// key, and allocation must keep counting past it.
	widened := Format(100000, "25")
	require.Greater(t, len(widened), len(Format(99999, "25")))

	next, err := Next(&widened, "25")
	require.NoError(t, err)
	assert.Equal(t, "INV-100001/25", next)
}

func TestNext(t *testing.T) {
	// Empty sequence starts at 1.
	next, err := Next(nil, "25")
	require.NoError(t, err)
	assert.Equal(t, "INV-00001/25", next)

	empty := ""
	next, err = Next(&empty, "25")
	require.NoError(t, err)
	assert.Equal(t, "INV-00001/25", next)

	last := "INV-00041/25"
	next, err = Next(&last, "25")
	require.NoError(t, err)
	assert.Equal(t, "INV-00042/25", next)

	// A suffix mismatch means the lookup and the clock disagree.
	_, err = Next(&last, "26")
	assert.Error(t, err)

	// A malformed stored number is fatal.
	malformed := "INV-xxxxx/25"
	_, err = Next(&malformed, "25")
	assert.Error(t, err)
}
