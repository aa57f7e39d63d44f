package handler

import (
	"strconv"
	"sync"
)

// Leds implements the leds handler: a 32-bit LED bitmask, cached in
// decimal form after each successful write. Written values are parsed
// as 64-bit integers and only their low 32 bits are kept; wider masks
// are not supported.
type Leds struct {
	mu    sync.Mutex
	value uint32
	apply func(uint32) error
}

// NewLeds constructs a leds handler with an initial cached value and
// the device call to invoke on a successful write.
func NewLeds(initial uint32, apply func(uint32) error) *Leds {
	return &Leds{value: initial, apply: apply}
}

// Read implements [Handler].
func (l *Leds) Read() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return []byte(strconv.FormatUint(uint64(l.value), 10) + "\n"), nil
}

// Write implements [Handler].
func (l *Leds) Write(data []byte) (uint32, error) {
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

	err = l.apply(uint32(v))
	if err != nil {
		return 0, err
	}

	l.value = uint32(v)

	return uint32(len(data)), nil
}

// Size implements [Handler].
func (l *Leds) Size() (uint32, error) {
	var payload []byte

	payload, _ = l.Read()

	return uint32(len(payload)), nil
}

// IsReadOnly implements [Handler].
func (l *Leds) IsReadOnly() bool {
	return false
}

var _ Handler = (*Leds)(nil)
