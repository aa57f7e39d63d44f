//go:build linux

// Package keypad polls a device's keypad state and republishes transitions
// as Linux key events on a virtual /dev/uinput device, so window managers
// and other input consumers can bind to the panel's keys like any other
// keyboard.
package keypad

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pobot/lcdfs/device"
	"github.com/pobot/lcdfs/linux/input"
)

// pollInterval is the delay between two keypad state samples.
const pollInterval = 100 * time.Millisecond

// Monitor polls a device's keypad and emits edge-triggered key events on
// a virtual input device named "ctrl-panel". A Monitor with no keypad
// capability is a no-op: Start returns immediately without creating
// anything.
type Monitor struct {
	dev    device.Device
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New returns a Monitor for dev. Start must be called to begin polling.
func New(dev device.Device, logger *slog.Logger) *Monitor {
	return &Monitor{dev: dev, logger: logger}
}

// Start begins polling on a dedicated goroutine. It is a no-op if the
// device has no keypad, or if the monitor is already running.
func (m *Monitor) Start() {
	var (
		caps   device.Capabilities
		keymap device.KeypadMap
	)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}

	caps = m.dev.Capabilities()
	if !caps.HasKeypad {
		return
	}

	keymap = device.DefaultKeypadMap
	if caps.KeypadMap != nil {
		keymap = *caps.KeypadMap
	}

	m.started = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})

	go m.run(keymap)
}

// Stop signals the polling goroutine to exit and waits up to timeout for
// it to do so. It is safe to call on a Monitor that was never started,
// or one already stopped.
func (m *Monitor) Stop(timeout time.Duration) {
	var stopCh, doneCh chan struct{}

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}

	m.started = false
	stopCh = m.stopCh
	doneCh = m.doneCh
	m.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
	case <-time.After(timeout):
		m.logger.Warn("keypad: monitor did not stop within timeout")
	}
}

func (m *Monitor) run(keymap device.KeypadMap) {
	var (
		file    *os.File
		mask    uint32
		prev    uint32
		state   uint32
		changed uint32
		first   bool
		ticker  *time.Ticker
		err     error
	)

	defer close(m.doneCh)

	file, err = openUinput(keymap)
	if err != nil {
		m.logger.Error("keypad: uinput setup failed", "err", err)
		return
	}
	defer closeUinput(file)

	mask = keymap.Mask()
	first = true

	ticker = time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
		}

		state, err = m.dev.GetKeypadState()
		if err != nil {
			m.logger.Error("keypad: state query failed", "err", err)
			continue
		}

		state &= mask

		if first {
			changed = state
			first = false
		} else {
			changed = state ^ prev
		}

		prev = state

		if changed == 0 {
			continue
		}

		err = emitChanges(file, keymap, changed, state)
		if err != nil {
			m.logger.Error("keypad: event emission failed", "err", err)
		}
	}
}

// emitChanges writes one KEY event per bit set in changed, value 1 for a
// key that is now pressed in state and 0 for one that was released, then
// a terminating SYN_REPORT.
func emitChanges(file *os.File, keymap device.KeypadMap, changed, state uint32) error {
	var (
		slot  int
		value int32
		err   error
	)

	for slot = 0; slot < device.KeypadSlots; slot++ {
		if changed&(1<<uint(slot)) == 0 {
			continue
		}

		if keymap[slot] == device.AbsentSlot {
			continue
		}

		value = 0
		if state&(1<<uint(slot)) != 0 {
			value = 1
		}

		err = writeEvent(file, input.EV_KEY, uint16(keymap[slot]), value)
		if err != nil {
			return err
		}
	}

	return writeEvent(file, input.EV_SYN, input.SYN_REPORT, 0)
}
