package handler

// Display implements the write-only display handler: every byte
// written is fed to the ANSI engine. No value is cached; reads return
// an empty payload.
type Display struct {
	sink interface {
		Write([]byte) (int, error)
	}
}

// NewDisplay constructs a display handler feeding writes to sink (the
// ANSI engine bound to the mount's device).
func NewDisplay(sink interface {
	Write([]byte) (int, error)
}) *Display {
	return &Display{sink: sink}
}

// Read implements [Handler]. Display is write-only; reads are empty.
func (d *Display) Read() ([]byte, error) {
	return nil, nil
}

// Write implements [Handler].
func (d *Display) Write(data []byte) (uint32, error) {
	var (
		n   int
		err error
	)

	n, err = d.sink.Write(data)
	if err != nil {
		return 0, err
	}

	return uint32(n), nil
}

// Size implements [Handler].
func (d *Display) Size() (uint32, error) {
	return 0, nil
}

// IsReadOnly implements [Handler]. Display is write-only, not
// read-only; reads simply return nothing.
func (d *Display) IsReadOnly() bool {
	return false
}

var _ Handler = (*Display)(nil)
