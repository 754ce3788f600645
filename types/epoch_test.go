package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEpochPackUnpack(t *testing.T) {
	e := NewEpochNumberWithFraction(1500, 200, 1800)

	assert.Equal(t, uint64(1500), e.Number())
	assert.Equal(t, uint64(200), e.Index())
	assert.Equal(t, uint64(1800), e.Length())
}

func TestEpochAsSince(t *testing.T) {
	e := NewEpochNumberWithFraction(5, 0, 1)
	since := e.AsSince()

	assert.Equal(t, uint64(0x2000_0000_0000_0000)|uint64(e), since)
	assert.NotZero(t, since&0x2000_0000_0000_0000)
}

func TestEpochString(t *testing.T) {
	e := NewEpochNumberWithFraction(12, 3, 1800)
	assert.Equal(t, "12(3/1800)", e.String())
}
