package handler

import (
	"fmt"
	"strconv"
	"strings"
)

// Info implements the read-only info handler: a fixed text block
// composed once, at construction, from the capability descriptor.
type Info struct {
	text []byte
}

// InfoFields carries the seven attributes the info file reports.
// Brightness, Contrast, and Locked report capability presence, not the
// live values of those files.
type InfoFields struct {
	Rows       int
	Cols       int
	Model      string
	Version    int
	Brightness bool
	Contrast   bool
	Locked     bool
}

func boolText(b bool) string {
	if b {
		return "True"
	}

	return "False"
}

func infoLine(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%-16s : %s\n", key, value)
}

// NewInfo composes the fixed text block for fields.
func NewInfo(fields InfoFields) *Info {
	var b strings.Builder

	infoLine(&b, "rows", strconv.Itoa(fields.Rows))
	infoLine(&b, "cols", strconv.Itoa(fields.Cols))
	infoLine(&b, "model", fields.Model)
	infoLine(&b, "version", strconv.Itoa(fields.Version))
	infoLine(&b, "brightness", boolText(fields.Brightness))
	infoLine(&b, "contrast", boolText(fields.Contrast))
	infoLine(&b, "locked", boolText(fields.Locked))

	return &Info{text: []byte(b.String())}
}

// Read implements [Handler]. Info's payload already ends in a newline
// from its last line; no extra newline is appended.
func (i *Info) Read() ([]byte, error) {
	return i.text, nil
}

// Write implements [Handler]. info is read-only.
func (i *Info) Write(data []byte) (uint32, error) {
	return 0, ErrReadOnly
}

// Size implements [Handler].
func (i *Info) Size() (uint32, error) {
	return uint32(len(i.text)), nil
}

// IsReadOnly implements [Handler].
func (i *Info) IsReadOnly() bool {
	return true
}

var _ Handler = (*Info)(nil)
