package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHumanCapacity(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"1", 100_000_000},
		{"102.43", 10_243_000_000},
		{"0.00000001", 1},
		{"100.00000000", 10_000_000_000},
		{".5", 50_000_000},
	}

	for _, tt := range tests {
		got, err := ParseHumanCapacity(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseHumanCapacityRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1.000000001", "-5"} {
		_, err := ParseHumanCapacity(in)
		assert.Error(t, err, in)
	}
}

func TestFormatCapacity(t *testing.T) {
	assert.Equal(t, "102.43", FormatCapacity(10_243_000_000))
	assert.Equal(t, "500.0", FormatCapacity(50_000_000_000))
	assert.Equal(t, "0.00000001", FormatCapacity(1))
}

func TestFeeRateRoundsUp(t *testing.T) {
	rate := FeeRate(1000) // one shannon per byte

	assert.Equal(t, uint64(512), rate.Fee(512))

	// 512 * 1300 / 1000 = 665.6, must round up
	assert.Equal(t, uint64(666), FeeRate(1300).Fee(512))

	assert.Equal(t, uint64(0), rate.Fee(0))

	// below one shannon still charges one
	assert.Equal(t, uint64(1), FeeRate(1).Fee(999))
}
