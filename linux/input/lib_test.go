//go:build linux

package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitReportsSetAndClearBits(t *testing.T) {
	b := []byte{0b00000100}

	assert.True(t, TestBit(b, 2))
	assert.False(t, TestBit(b, 0))
	assert.False(t, TestBit(b, 7))
}

func TestMaxCodesKnownEventType(t *testing.T) {
	max, ok := MaxCodes(EV_KEY)
	assert.True(t, ok)
	assert.Equal(t, uint(KEY_MAX), max)
}

func TestMaxCodesUnknownEventType(t *testing.T) {
	_, ok := MaxCodes(EventType(0xff))
	assert.False(t, ok)
}
