package hearthpwn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDust(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int64
	}{
		{"900", 900},
		{"1.2k", 1200},
		{"2,500", 2500},
		{"12k", 1200},
		{" 3,640 ", 3640},
	}
	for _, test := range testCases {
		dust, err := ParseDust(test.raw)
		require.NoError(t, err, test.raw)
		require.Equal(t, test.expected, dust, test.raw)
	}

	_, err := ParseDust("unknown")
	require.Error(t, err)
}

func TestParseRating(t *testing.T) {
	rating, err := ParseRating(" 42\n")
	require.NoError(t, err)
	require.Equal(t, int64(42), rating)

	_, err = ParseRating("")
	require.Error(t, err)
}

func TestMaxPatch(t *testing.T) {
	patch, err := maxPatch([]string{"", "12345", "12000", "11999"})
	require.NoError(t, err)
	require.Equal(t, "12345", patch)

	// numeric comparison, not lexicographic
	patch, err = maxPatch([]string{"9999", "12345"})
	require.NoError(t, err)
	require.Equal(t, "12345", patch)

	_, err = maxPatch([]string{"", ""})
	require.Error(t, err)
}
