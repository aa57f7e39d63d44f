package handler

import (
	"strconv"
	"sync"
)

// Level implements the BackLight, Brightness, and Contrast handlers
// described in the filesystem surface: each caches the last
// successfully applied value and clamps writes to [0, max].
type Level struct {
	mu    sync.Mutex
	max   int64
	value int64
	apply func(int64) error
}

// NewLevel constructs a level handler with the given inclusive upper
// bound (1 for BackLight, 255 for Brightness/Contrast), an initial
// cached value, and the device call to invoke on a successful write.
func NewLevel(max, initial int64, apply func(int64) error) *Level {
	return &Level{max: max, value: clamp(initial, 0, max), apply: apply}
}

// Read implements [Handler].
func (l *Level) Read() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return []byte(strconv.FormatInt(l.value, 10) + "\n"), nil
}

// Write implements [Handler].
func (l *Level) Write(data []byte) (uint32, error) {
	var (
		v   int64
		ok  bool
		err error
	)

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok = parseInt(trimmed(data))
	if !ok {
		return 0, nil
	}

	v = clamp(v, 0, l.max)

	err = l.apply(v)
	if err != nil {
		return 0, err
	}

	l.value = v

	return uint32(len(data)), nil
}

// Size implements [Handler].
func (l *Level) Size() (uint32, error) {
	var payload []byte

	payload, _ = l.Read()

	return uint32(len(payload)), nil
}

// IsReadOnly implements [Handler].
func (l *Level) IsReadOnly() bool {
	return false
}

var _ Handler = (*Level)(nil)
