package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummyCapabilities(t *testing.T) {
	dev := NewDummy()
	caps := dev.Capabilities()

	assert.Equal(t, 4, caps.Rows)
	assert.Equal(t, 20, caps.Cols)
	assert.Equal(t, 42, caps.Version)
	assert.Equal(t, "dummy", caps.Model)
	assert.False(t, caps.HasBrightness)
	assert.False(t, caps.HasContrast)
	assert.False(t, caps.HasLeds)
	assert.False(t, caps.HasLock)
	assert.False(t, caps.HasKeypad)
}

func TestDummyKeypadStateFixed(t *testing.T) {
	dev := NewDummy()

	state, err := dev.GetKeypadState()
	require.NoError(t, err)
	assert.Equal(t, uint32(0b1001), state)
}

func TestDummyClearResetsCursor(t *testing.T) {
	dev := NewDummy()

	err := dev.GotoLineCol(3, 5)
	require.NoError(t, err)

	err = dev.WriteText("x")
	require.NoError(t, err)

	err = dev.Clear()
	require.NoError(t, err)

	// After Clear, the cursor is back at (0,0): writing one more
	// character should land in row 0 col 0, not wherever GotoLineCol
	// left it.
	err = dev.WriteText("y")
	require.NoError(t, err)

	assert.Equal(t, byte('y'), dev.text[0][0])
	assert.Equal(t, byte(0), dev.text[2][4])
	assert.Equal(t, 0, dev.row)
	assert.Equal(t, 1, dev.col)
}

func TestDummyWriteTextWraps(t *testing.T) {
	dev := NewDummy()

	long := make([]byte, 25)
	for i := range long {
		long[i] = 'a'
	}

	err := dev.WriteText(string(long))
	require.NoError(t, err)

	// 20 characters fill row 0; the remaining 5 wrap onto row 1.
	assert.Equal(t, byte('a'), dev.text[0][19])
	assert.Equal(t, byte('a'), dev.text[1][4])
	assert.Equal(t, 1, dev.row)
	assert.Equal(t, 5, dev.col)
}

func TestDummyBackspaceNoopAtColumnZero(t *testing.T) {
	dev := NewDummy()

	err := dev.Backspace()
	require.NoError(t, err)

	assert.Equal(t, 0, dev.row)
	assert.Equal(t, 0, dev.col)
}

func TestDummyUnsupportedCapabilitiesAreNoops(t *testing.T) {
	dev := NewDummy()

	require.NoError(t, dev.SetBacklight(true))
	require.NoError(t, dev.SetBrightness(128))
	require.NoError(t, dev.SetContrast(128))
	require.NoError(t, dev.SetLedsState(0xff))
	require.NoError(t, dev.TabSet(4))

	locked, err := dev.IsLocked()
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestKeypadMapMask(t *testing.T) {
	m := KeypadMap{0: 1, 1: AbsentSlot, 2: 3}
	for i := 3; i < KeypadSlots; i++ {
		m[i] = AbsentSlot
	}

	assert.Equal(t, uint32(0b101), m.Mask())
}

func TestDefaultKeypadMapHasNoAbsentSlots(t *testing.T) {
	for i, code := range DefaultKeypadMap {
		assert.NotEqual(t, AbsentSlot, code, "slot %d should carry a real key code", i)
	}
}
