package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelClampsToMax(t *testing.T) {
	var applied int64

	l := NewLevel(255, 100, func(v int64) error {
		applied = v
		return nil
	})

	n, err := l.Write([]byte("999\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(len("999\n")), n)
	assert.Equal(t, int64(255), applied)

	payload, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, "255\n", string(payload))
}

func TestLevelUnparseableWriteIsSwallowed(t *testing.T) {
	called := false

	l := NewLevel(1, 0, func(v int64) error {
		called = true
		return nil
	})

	n, err := l.Write([]byte("not-a-number\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n)
	assert.False(t, called)
}

func TestLevelAcceptsHexFallback(t *testing.T) {
	var applied int64

	l := NewLevel(255, 0, func(v int64) error {
		applied = v
		return nil
	})

	_, err := l.Write([]byte("ff\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(255), applied)
}

func TestLevelApplyErrorLeavesCacheUnchanged(t *testing.T) {
	boom := errors.New("boom")

	l := NewLevel(255, 10, func(v int64) error {
		return boom
	})

	_, err := l.Write([]byte("50\n"))
	require.ErrorIs(t, err, boom)

	payload, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, "10\n", string(payload))
}

func TestLedsRoundTrip(t *testing.T) {
	var applied uint32

	l := NewLeds(0, func(mask uint32) error {
		applied = mask
		return nil
	})

	_, err := l.Write([]byte("12\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), applied)

	payload, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, "12\n", string(payload))
}

type recordingSink struct {
	written []byte
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.written = append(s.written, p...)
	return len(p), nil
}

func TestDisplayForwardsWritesAndHasNoCachedRead(t *testing.T) {
	sink := &recordingSink{}
	d := NewDisplay(sink)

	n, err := d.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), n)
	assert.Equal(t, "hello", string(sink.written))

	payload, err := d.Read()
	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.False(t, d.IsReadOnly())
}

func TestKeysQueriesLiveEachRead(t *testing.T) {
	calls := 0

	k := NewKeys(func() (uint32, error) {
		calls++
		return uint32(calls), nil
	})

	first, err := k.Read()
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(first))

	second, err := k.Read()
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(second))

	assert.True(t, k.IsReadOnly())

	_, err = k.Write([]byte("3"))
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestLockedReportsBooleanText(t *testing.T) {
	locked := true

	l := NewLocked(func() (bool, error) {
		return locked, nil
	})

	payload, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(payload))

	locked = false

	payload, err = l.Read()
	require.NoError(t, err)
	assert.Equal(t, "0\n", string(payload))
}

func TestInfoComposesSevenLines(t *testing.T) {
	info := NewInfo(InfoFields{
		Rows:       4,
		Cols:       20,
		Model:      "dummy",
		Version:    42,
		Brightness: false,
		Contrast:   false,
		Locked:     false,
	})

	payload, err := info.Read()
	require.NoError(t, err)

	text := string(payload)
	assert.True(t, info.IsReadOnly())
	assert.Equal(t, "rows             : 4\n", text[:len("rows             : 4\n")])
	assert.Contains(t, text, "brightness       : False\n")
	assert.Contains(t, text, "locked           : False\n")

	size, err := info.Size()
	require.NoError(t, err)
	assert.Equal(t, uint32(len(payload)), size)

	_, err = info.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestTrimmedStripsNewlineAndLeadingWhitespace(t *testing.T) {
	assert.Equal(t, "128", trimmed([]byte(" 128\n")))
	assert.Equal(t, "128", trimmed([]byte("128\r\n")))
	assert.Equal(t, "", trimmed([]byte("\n")))
}

func TestParseIntDecimalThenHex(t *testing.T) {
	v, ok := parseInt("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	v, ok = parseInt("2a")
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, ok = parseInt("not-a-number")
	assert.False(t, ok)
}

func TestParseIntAccepts0xPrefix(t *testing.T) {
	v, ok := parseInt("0xff")
	assert.True(t, ok)
	assert.Equal(t, int64(255), v)

	v, ok = parseInt("0XFF")
	assert.True(t, ok)
	assert.Equal(t, int64(255), v)
}

func TestLevelAccepts0xPrefixedLiteral(t *testing.T) {
	var applied int64

	l := NewLevel(255, 0, func(v int64) error {
		applied = v
		return nil
	})

	_, err := l.Write([]byte("0xff\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(255), applied)

	payload, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, "255\n", string(payload))
}
