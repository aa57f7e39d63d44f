// Package handler implements the per-file read/write logic backing each
// entry in the virtual directory. Each handler maps a file to a device
// property or to the ANSI terminal engine, following the contract in
// the filesystem surface: write returns the number of bytes accepted,
// read returns the cached or live textual value, and size always
// equals len(read()).
package handler

import (
	"errors"
	"strconv"
	"strings"
)

// ErrReadOnly is returned by Write on a read-only handler.
var ErrReadOnly = errors.New("handler: read-only")

// Handler is the common, polymorphic surface every virtual file
// implements.
type Handler interface {
	// Read returns the current payload, including any trailing newline
	// the kind requires. Keys and Locked query the device live and may
	// return a device error.
	Read() ([]byte, error)

	// Write attempts to apply data. Read-only handlers return
	// ErrReadOnly. A value-parsing failure is not an error: it returns
	// (0, nil), leaving any cached value unchanged, per the "swallow
	// ParseError" contract.
	Write(data []byte) (uint32, error)

	// Size returns len(Read()), or propagates Read's error.
	Size() (uint32, error)

	// IsReadOnly reports whether Write always fails.
	IsReadOnly() bool
}

// parseInt parses s as a base-10 integer first, then as base-16, with
// or without a "0x"/"0X" prefix (mirroring Python's int(s, 16), which
// the original normalize_level relies on). It returns ok == false if
// neither parse succeeds, per the "return 0 / leave cache unchanged"
// contract for unparseable writes.
func parseInt(s string) (int64, bool) {
	var (
		v   int64
		err error
	)

	v, err = strconv.ParseInt(s, 10, 64)
	if err == nil {
		return v, true
	}

	v, err = strconv.ParseInt(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), 16, 64)
	if err == nil {
		return v, true
	}

	return 0, false
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// trimmed strips every trailing newline, carriage return, space and tab
// (callers typically write values as `echo 128 > brightness`), plus any
// leading spaces and tabs.
func trimmed(data []byte) string {
	var start, end int

	end = len(data)
	for end > 0 && (data[end-1] == '\n' || data[end-1] == '\r' || data[end-1] == ' ' || data[end-1] == '\t') {
		end--
	}

	for start < end && (data[start] == ' ' || data[start] == '\t') {
		start++
	}

	return string(data[start:end])
}
