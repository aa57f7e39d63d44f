package device

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
)

// Model names the three device types the original daemon dispatches on:
// LCD03 and LCD05 are display-only, Panel is the combined LCD+keypad+LED
// ControlPanel device.
type Model int

const (
	// LCD03 is a 2x16/4x20 display-only panel with brightness and
	// contrast but no keypad or LEDs.
	LCD03 Model = iota

	// LCD05 is a display-only panel identical in capability to LCD03
	// (the original implementation distinguishes them only by model
	// name and default geometry).
	LCD05

	// Panel is the combined LCD + keypad + LED ControlPanel device.
	Panel
)

// String implements fmt.Stringer.
func (m Model) String() string {
	switch m {
	case LCD03:
		return "lcd03"
	case LCD05:
		return "lcd05"
	case Panel:
		return "panel"
	default:
		return "unknown"
	}
}

// Command bytes follow the matrixorbital-style protocol convention:
// every command is introduced by cmdByte. The exact codec of the real
// LCD03/LCD05/ControlPanel hardware is an external collaborator this
// module does not attempt to reproduce faithfully; these are a
// plausible, internally consistent command set.
const cmdByte byte = 0xfe

var (
	cmdClear        = []byte{cmdByte, 0x01}
	cmdHome         = []byte{cmdByte, 0x02}
	cmdBackspace    = []byte{cmdByte, 0x04}
	cmdHTab         = []byte{cmdByte, 0x09}
	cmdMoveDown     = []byte{cmdByte, 0x0a}
	cmdMoveUp       = []byte{cmdByte, 0x0b}
	cmdCR           = []byte{cmdByte, 0x0d}
	cmdClearColumn  = []byte{cmdByte, 0x0e}
	cmdQueryKeypad  = []byte{cmdByte, 0x40}
	cmdQueryLock    = []byte{cmdByte, 0x41}
	cmdQueryVersion = []byte{cmdByte, 0x4c}
)

func cmdBacklight(on bool) []byte {
	if on {
		return []byte{cmdByte, 0x42, 1}
	}

	return []byte{cmdByte, 0x42, 0}
}

func cmdBrightness(level uint8) []byte {
	return []byte{cmdByte, 0x99, level}
}

func cmdContrast(level uint8) []byte {
	return []byte{cmdByte, 0x50, level}
}

func cmdLeds(mask uint32) []byte {
	return []byte{
		cmdByte, 0x51,
		byte(mask >> 24), byte(mask >> 16), byte(mask >> 8), byte(mask),
	}
}

func cmdGotoPos(pos int) []byte {
	return []byte{cmdByte, 0x45, byte(pos)}
}

func cmdGotoLineCol(line, col int) []byte {
	return []byte{cmdByte, 0x47, byte(col), byte(line)}
}

func cmdTabSet(pos int) []byte {
	return []byte{cmdByte, 0x48, byte(pos)}
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("device: %w: %w", ErrDeviceIO, err)
}

// Panel is a [Device] backed by a real display speaking the
// matrixorbital-style command protocol over an injected [conn.Conn].
// Acquiring that connection (the I²C bus handle) is the CLI's
// responsibility, not this package's.
type Panel struct {
	mu   sync.Mutex
	conn conn.Conn

	model   Model
	rows    int
	cols    int
	version int

	hasBrightness bool
	hasContrast   bool
	hasLeds       bool
	hasLock       bool
	hasKeypad     bool
}

// NewPanel wraps c as the named model. rows and cols describe the
// display geometry; version is the firmware version to report.
func NewPanel(c conn.Conn, model Model, rows, cols, version int) *Panel {
	var p *Panel

	p = &Panel{
		conn:    c,
		model:   model,
		rows:    rows,
		cols:    cols,
		version: version,
	}

	switch model {
	case LCD03, LCD05:
		p.hasBrightness = true
		p.hasContrast = true
	case Panel:
		p.hasBrightness = true
		p.hasContrast = true
		p.hasLeds = true
		p.hasLock = true
		p.hasKeypad = true
	}

	return p
}

func (p *Panel) send(cmd []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return wrapErr(p.conn.Tx(cmd, nil))
}

func (p *Panel) query(cmd []byte, reply []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return wrapErr(p.conn.Tx(cmd, reply))
}

// WriteText implements [Device].
func (p *Panel) WriteText(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return wrapErr(p.conn.Tx([]byte(s), nil))
}

// Clear implements [Device].
func (p *Panel) Clear() error { return p.send(cmdClear) }

// Home implements [Device].
func (p *Panel) Home() error { return p.send(cmdHome) }

// GotoPos implements [Device].
func (p *Panel) GotoPos(pos int) error { return p.send(cmdGotoPos(pos)) }

// GotoLineCol implements [Device].
func (p *Panel) GotoLineCol(line, col int) error { return p.send(cmdGotoLineCol(line, col)) }

// Backspace implements [Device].
func (p *Panel) Backspace() error { return p.send(cmdBackspace) }

// HTab implements [Device].
func (p *Panel) HTab() error { return p.send(cmdHTab) }

// MoveDown implements [Device].
func (p *Panel) MoveDown() error { return p.send(cmdMoveDown) }

// MoveUp implements [Device].
func (p *Panel) MoveUp() error { return p.send(cmdMoveUp) }

// CR implements [Device].
func (p *Panel) CR() error { return p.send(cmdCR) }

// ClearColumn implements [Device].
func (p *Panel) ClearColumn() error { return p.send(cmdClearColumn) }

// TabSet implements [Device].
func (p *Panel) TabSet(pos int) error { return p.send(cmdTabSet(pos)) }

// SetBacklight implements [Device].
func (p *Panel) SetBacklight(on bool) error { return p.send(cmdBacklight(on)) }

// SetBrightness implements [Device].
func (p *Panel) SetBrightness(level uint8) error {
	if !p.hasBrightness {
		return fmt.Errorf("device.Panel.SetBrightness: %w: no brightness capability", ErrDeviceIO)
	}

	return p.send(cmdBrightness(level))
}

// SetContrast implements [Device].
func (p *Panel) SetContrast(level uint8) error {
	if !p.hasContrast {
		return fmt.Errorf("device.Panel.SetContrast: %w: no contrast capability", ErrDeviceIO)
	}

	return p.send(cmdContrast(level))
}

// SetLedsState implements [Device].
func (p *Panel) SetLedsState(mask uint32) error {
	if !p.hasLeds {
		return fmt.Errorf("device.Panel.SetLedsState: %w: no leds capability", ErrDeviceIO)
	}

	return p.send(cmdLeds(mask))
}

// GetKeypadState implements [Device].
func (p *Panel) GetKeypadState() (uint32, error) {
	var (
		reply [4]byte
		err   error
	)

	if !p.hasKeypad {
		return 0, fmt.Errorf("device.Panel.GetKeypadState: %w: no keypad capability", ErrDeviceIO)
	}

	err = p.query(cmdQueryKeypad, reply[:])
	if err != nil {
		return 0, err
	}

	return uint32(reply[0])<<24 | uint32(reply[1])<<16 | uint32(reply[2])<<8 | uint32(reply[3]), nil
}

// IsLocked implements [Device].
func (p *Panel) IsLocked() (bool, error) {
	var (
		reply [1]byte
		err   error
	)

	if !p.hasLock {
		return false, fmt.Errorf("device.Panel.IsLocked: %w: no lock capability", ErrDeviceIO)
	}

	err = p.query(cmdQueryLock, reply[:])
	if err != nil {
		return false, err
	}

	return reply[0] != 0, nil
}

// GetVersion implements [Device].
func (p *Panel) GetVersion() int { return p.version }

// Height implements [Device].
func (p *Panel) Height() int { return p.rows }

// Width implements [Device].
func (p *Panel) Width() int { return p.cols }

// Capabilities implements [Device].
func (p *Panel) Capabilities() Capabilities {
	var caps Capabilities

	caps = Capabilities{
		Rows:          p.rows,
		Cols:          p.cols,
		Version:       p.version,
		Model:         modelName(p.model),
		HasBrightness: p.hasBrightness,
		HasContrast:   p.hasContrast,
		HasLeds:       p.hasLeds,
		HasLock:       p.hasLock,
		HasKeypad:     p.hasKeypad,
	}

	if p.hasKeypad {
		caps.KeypadMap = &DefaultKeypadMap
	}

	return caps
}

func modelName(m Model) string {
	switch m {
	case LCD03:
		return "LCD03"
	case LCD05:
		return "LCD05"
	case Panel:
		return "ControlPanel"
	default:
		return "unknown"
	}
}

var _ Device = (*Panel)(nil)
