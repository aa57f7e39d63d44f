// Package ansi implements a small, stateful interpreter for the
// ANSI/VT100-like control sequences written to the display file. It
// translates a byte stream into primitive calls on a [device.Device],
// preserving parser state across separate Write calls so that control
// sequences may be split across them without losing framing.
package ansi

import (
	"strconv"
	"strings"

	"github.com/pobot/lcdfs/device"
)

const (
	formFeed  = 0x0c
	escByte   = 0x1b
	carriageR = '\r'
	lineFeed  = '\n'
	backspace = 0x08
	htab      = '\t'
)

// parserState names the state of the escape-sequence state machine
// described in the design notes: Ground, Escape, CSI.
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
)

// Engine is a stateful ANSI-sequence interpreter bound to one
// [device.Device]. A zero Engine is not usable; construct with [New].
type Engine struct {
	dev   device.Device
	state parserState
	csi   strings.Builder
	run   strings.Builder
}

// New returns an Engine driving dev.
func New(dev device.Device) *Engine {
	return &Engine{dev: dev}
}

// Write feeds p into the parser. It implements io.Writer so the engine
// can sit directly behind the display file handler; errors from device
// calls abort processing of the remaining bytes in p and are returned.
func (e *Engine) Write(p []byte) (int, error) {
	var (
		b   byte
		err error
	)

	for _, b = range p {
		err = e.feed(b)
		if err != nil {
			return len(p), err
		}
	}

	return len(p), nil
}

// WriteAt issues a cursor move to (line, col) followed by text, bypassing
// the byte-at-a-time parser. It is used for the startup splash banner.
func (e *Engine) WriteAt(text string, line, col int) error {
	var err error

	err = e.flush()
	if err != nil {
		return err
	}

	err = e.dev.GotoLineCol(line, col)
	if err != nil {
		return err
	}

	return e.dev.WriteText(text)
}

func (e *Engine) feed(b byte) error {
	switch e.state {
	case stateGround:
		return e.feedGround(b)
	case stateEscape:
		return e.feedEscape(b)
	case stateCSI:
		return e.feedCSI(b)
	default:
		e.state = stateGround
		return nil
	}
}

func (e *Engine) feedGround(b byte) error {
	switch b {
	case escByte:
		return e.flush2(func() error {
			e.state = stateEscape
			return nil
		})
	case formFeed:
		return e.flush2(e.dev.Clear)
	case carriageR:
		return e.flush2(e.dev.CR)
	case lineFeed:
		return e.flush2(e.dev.MoveDown)
	case backspace:
		return e.flush2(e.dev.Backspace)
	case htab:
		return e.flush2(e.dev.HTab)
	default:
		e.run.WriteByte(b)
		return nil
	}
}

// flush2 flushes the accumulated printable run, then runs fn.
func (e *Engine) flush2(fn func() error) error {
	var err error

	err = e.flush()
	if err != nil {
		return err
	}

	return fn()
}

func (e *Engine) flush() error {
	var (
		text string
		err  error
	)

	if e.run.Len() == 0 {
		return nil
	}

	text = e.run.String()
	e.run.Reset()

	err = e.dev.WriteText(text)
	if err != nil {
		return err
	}

	return nil
}

func (e *Engine) feedEscape(b byte) error {
	if b == '[' {
		e.csi.Reset()
		e.state = stateCSI

		return nil
	}

	// Anything else after ESC is not a recognized sequence: drop back
	// to ground without emitting device I/O.
	e.state = stateGround

	return nil
}

func (e *Engine) feedCSI(b byte) error {
	// Parameter bytes (digits, ';') accumulate; a final byte in
	// 0x40-0x7e ends the sequence.
	if b >= '0' && b <= '9' || b == ';' {
		e.csi.WriteByte(b)
		return nil
	}

	if b < 0x40 || b > 0x7e {
		// Malformed sequence: reset silently.
		e.state = stateGround
		return nil
	}

	return e.endCSI(b)
}

func (e *Engine) endCSI(final byte) error {
	var params string

	params = e.csi.String()
	e.csi.Reset()
	e.state = stateGround

	if final != 'H' {
		// Unknown CSI final byte: silently consumed per spec.
		return nil
	}

	return e.cursorPosition(params)
}

func (e *Engine) cursorPosition(params string) error {
	var (
		parts     []string
		line, col int
		err       error
	)

	line, col = 1, 1

	parts = strings.SplitN(params, ";", 2)

	if len(parts) > 0 && parts[0] != "" {
		line, err = strconv.Atoi(parts[0])
		if err != nil {
			return nil
		}
	}

	if len(parts) > 1 && parts[1] != "" {
		col, err = strconv.Atoi(parts[1])
		if err != nil {
			return nil
		}
	}

	return e.dev.GotoLineCol(line, col)
}
