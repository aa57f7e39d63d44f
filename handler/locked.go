package handler

// Locked implements the read-only locked handler: every Read/Size
// queries the device's lock switch live.
type Locked struct {
	query func() (bool, error)
}

// NewLocked constructs a locked handler backed by query, typically
// device.Device.IsLocked.
func NewLocked(query func() (bool, error)) *Locked {
	return &Locked{query: query}
}

// Read implements [Handler].
func (l *Locked) Read() ([]byte, error) {
	var (
		locked bool
		err    error
	)

	locked, err = l.query()
	if err != nil {
		return nil, err
	}

	if locked {
		return []byte("1\n"), nil
	}

	return []byte("0\n"), nil
}

// Write implements [Handler]. locked is read-only.
func (l *Locked) Write(data []byte) (uint32, error) {
	return 0, ErrReadOnly
}

// Size implements [Handler].
func (l *Locked) Size() (uint32, error) {
	var (
		payload []byte
		err     error
	)

	payload, err = l.Read()
	if err != nil {
		return 0, err
	}

	return uint32(len(payload)), nil
}

// IsReadOnly implements [Handler].
func (l *Locked) IsReadOnly() bool {
	return true
}

var _ Handler = (*Locked)(nil)
