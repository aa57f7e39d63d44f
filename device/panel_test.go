package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
)

// fakeConn is a minimal conn.Conn double that records writes and
// serves a canned reply on the next Tx with a non-nil r.
type fakeConn struct {
	sent  [][]byte
	reply []byte
	err   error
}

func (c *fakeConn) Tx(w, r []byte) error {
	c.sent = append(c.sent, append([]byte(nil), w...))

	if c.err != nil {
		return c.err
	}

	if r != nil {
		copy(r, c.reply)
	}

	return nil
}

func (c *fakeConn) Duplex() conn.Duplex { return conn.Full }

func (c *fakeConn) String() string { return "fakeConn" }

func TestNewPanelCapabilitiesByModel(t *testing.T) {
	c := &fakeConn{}

	lcd03 := NewPanel(c, LCD03, 2, 16, 1)
	caps := lcd03.Capabilities()
	assert.True(t, caps.HasBrightness)
	assert.True(t, caps.HasContrast)
	assert.False(t, caps.HasLeds)
	assert.False(t, caps.HasLock)
	assert.False(t, caps.HasKeypad)
	assert.Nil(t, caps.KeypadMap)
	assert.Equal(t, "LCD03", caps.Model)

	panel := NewPanel(c, Panel, 4, 20, 1)
	caps = panel.Capabilities()
	assert.True(t, caps.HasLeds)
	assert.True(t, caps.HasLock)
	assert.True(t, caps.HasKeypad)
	require.NotNil(t, caps.KeypadMap)
	assert.Equal(t, DefaultKeypadMap, *caps.KeypadMap)
}

func TestPanelSetBrightnessRejectedWithoutCapability(t *testing.T) {
	c := &fakeConn{}
	p := NewPanel(c, LCD03, 2, 16, 1)
	p.hasBrightness = false

	err := p.SetBrightness(128)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceIO)
}

func TestPanelWriteTextSendsRawBytes(t *testing.T) {
	c := &fakeConn{}
	p := NewPanel(c, LCD03, 2, 16, 1)

	err := p.WriteText("hi")
	require.NoError(t, err)
	require.Len(t, c.sent, 1)
	assert.Equal(t, []byte("hi"), c.sent[0])
}

func TestPanelGetKeypadStateDecodesReply(t *testing.T) {
	c := &fakeConn{reply: []byte{0, 0, 0, 5}}
	p := NewPanel(c, Panel, 4, 20, 1)

	state, err := p.GetKeypadState()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), state)
}

func TestPanelGetKeypadStateWithoutCapability(t *testing.T) {
	c := &fakeConn{}
	p := NewPanel(c, LCD03, 2, 16, 1)

	_, err := p.GetKeypadState()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceIO)
}

func TestPanelTransportErrorWrapsErrDeviceIO(t *testing.T) {
	c := &fakeConn{err: assert.AnError}
	p := NewPanel(c, LCD03, 2, 16, 1)

	err := p.Clear()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceIO)
	assert.ErrorIs(t, err, assert.AnError)
}
