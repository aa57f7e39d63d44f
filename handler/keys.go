package handler

import "strconv"

// Keys implements the read-only keys handler: every Read/Size queries
// the device live rather than returning a cached value.
type Keys struct {
	query func() (uint32, error)
}

// NewKeys constructs a keys handler backed by query, typically
// device.Device.GetKeypadState.
func NewKeys(query func() (uint32, error)) *Keys {
	return &Keys{query: query}
}

// Read implements [Handler].
func (k *Keys) Read() ([]byte, error) {
	var (
		state uint32
		err   error
	)

	state, err = k.query()
	if err != nil {
		return nil, err
	}

	return []byte(strconv.FormatUint(uint64(state), 10) + "\n"), nil
}

// Write implements [Handler]. keys is read-only.
func (k *Keys) Write(data []byte) (uint32, error) {
	return 0, ErrReadOnly
}

// Size implements [Handler].
func (k *Keys) Size() (uint32, error) {
	var (
		payload []byte
		err     error
	)

	payload, err = k.Read()
	if err != nil {
		return 0, err
	}

	return uint32(len(payload)), nil
}

// IsReadOnly implements [Handler].
func (k *Keys) IsReadOnly() bool {
	return true
}

var _ Handler = (*Keys)(nil)
