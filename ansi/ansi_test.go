package ansi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pobot/lcdfs/device"
)

// recordingDevice wraps the dummy device and records the primitive
// calls the engine makes on it.
type recordingDevice struct {
	*device.Dummy
	calls []string
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{Dummy: device.NewDummy()}
}

func (r *recordingDevice) WriteText(s string) error {
	r.calls = append(r.calls, "WriteText("+s+")")
	return r.Dummy.WriteText(s)
}

func (r *recordingDevice) Clear() error {
	r.calls = append(r.calls, "Clear")
	return r.Dummy.Clear()
}

func (r *recordingDevice) CR() error {
	r.calls = append(r.calls, "CR")
	return r.Dummy.CR()
}

func (r *recordingDevice) MoveDown() error {
	r.calls = append(r.calls, "MoveDown")
	return r.Dummy.MoveDown()
}

func (r *recordingDevice) Backspace() error {
	r.calls = append(r.calls, "Backspace")
	return r.Dummy.Backspace()
}

func (r *recordingDevice) HTab() error {
	r.calls = append(r.calls, "HTab")
	return r.Dummy.HTab()
}

func (r *recordingDevice) GotoLineCol(line, col int) error {
	r.calls = append(r.calls, fmt.Sprintf("GotoLineCol(%d,%d)", line, col))
	return r.Dummy.GotoLineCol(line, col)
}

func TestEnginePlainTextFlushesOnControlByte(t *testing.T) {
	dev := newRecordingDevice()
	e := New(dev)

	n, err := e.Write([]byte("hello\r"))
	require.NoError(t, err)
	assert.Equal(t, len("hello\r"), n)
	assert.Equal(t, []string{"WriteText(hello)", "CR"}, dev.calls)
}

func TestEngineFormFeedClears(t *testing.T) {
	dev := newRecordingDevice()
	e := New(dev)

	_, err := e.Write([]byte{0x0c})
	require.NoError(t, err)
	assert.Equal(t, []string{"Clear"}, dev.calls)
}

func TestEngineCursorPositionSequence(t *testing.T) {
	dev := newRecordingDevice()
	e := New(dev)

	// The trailing "x" stays buffered until the next control byte.
	_, err := e.Write([]byte("\x1b[2;5Hx"))
	require.NoError(t, err)
	assert.Equal(t, []string{"GotoLineCol(2,5)"}, dev.calls)
}

func TestEngineSequenceSplitAcrossWrites(t *testing.T) {
	dev := newRecordingDevice()
	e := New(dev)

	_, err := e.Write([]byte("\x1b["))
	require.NoError(t, err)

	_, err = e.Write([]byte("3;"))
	require.NoError(t, err)

	_, err = e.Write([]byte("7H"))
	require.NoError(t, err)
	assert.Equal(t, []string{"GotoLineCol(3,7)"}, dev.calls)
}

func TestEngineMalformedEscapeResetsSilently(t *testing.T) {
	dev := newRecordingDevice()
	e := New(dev)

	// ESC followed by something other than '[' drops back to ground
	// without emitting any device call or error; the following text
	// stays buffered.
	_, err := e.Write([]byte("\x1bZhello"))
	require.NoError(t, err)
	assert.Empty(t, dev.calls)
}

func TestEngineUnknownCSIFinalByteIsSwallowed(t *testing.T) {
	dev := newRecordingDevice()
	e := New(dev)

	// CSI with a final byte other than 'H' is consumed with no device
	// call, per spec.
	_, err := e.Write([]byte("\x1b[2J"))
	require.NoError(t, err)
	assert.Empty(t, dev.calls)
}

func TestEngineWriteAtFlushesPendingRunFirst(t *testing.T) {
	dev := newRecordingDevice()
	e := New(dev)

	_, err := e.Write([]byte("pending"))
	require.NoError(t, err)

	err = e.WriteAt("banner", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"WriteText(pending)", "GotoLineCol(1,1)", "WriteText(banner)"}, dev.calls)
}
