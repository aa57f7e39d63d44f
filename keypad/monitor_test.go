//go:build linux

package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pobot/lcdfs/device"
)

func TestKeypadMapMaskDrivesRelevantBits(t *testing.T) {
	keymap := device.DefaultKeypadMap
	mask := keymap.Mask()

	assert.Equal(t, uint32(0xfff), mask)
}

func TestMaskIgnoresAbsentSlots(t *testing.T) {
	keymap := device.DefaultKeypadMap
	keymap[0] = device.AbsentSlot

	mask := keymap.Mask()
	assert.Equal(t, uint32(0), mask&1)
}

func TestFirstSampleReportsAllBitsAsChanged(t *testing.T) {
	var (
		prev    uint32
		changed uint32
		first   bool
	)

	first = true
	state := uint32(0b1001)

	if first {
		changed = state
		first = false
	} else {
		changed = state ^ prev
	}

	assert.Equal(t, state, changed)
	assert.False(t, first)
}

func TestSubsequentSampleXORsAgainstPrevious(t *testing.T) {
	prev := uint32(0b1001)
	state := uint32(0b1011)

	changed := state ^ prev
	assert.Equal(t, uint32(0b0010), changed)
}

func TestUnchangedStateProducesNoEdges(t *testing.T) {
	prev := uint32(0b1001)
	state := uint32(0b1001)

	assert.Equal(t, uint32(0), state^prev)
}
