package device

import "sync"

// dummyRows and dummyCols match the original dummy device used on
// non-target hosts: a 4-row, 20-column display with no optional
// capabilities.
const (
	dummyRows    = 4
	dummyCols    = 20
	dummyVersion = 42

	// dummyKeypadState is the fixed bitmask the dummy device reports:
	// 0b1001, keys 0 and 3 held down.
	dummyKeypadState = 0b1001
)

// Dummy is an in-memory [Device] with no optional capabilities, used
// automatically when the real I²C bus cannot be acquired. It records
// cursor and text state only well enough to make Clear/Home/WriteText
// observably correct; it never touches real hardware.
type Dummy struct {
	mu   sync.Mutex
	row  int
	col  int
	text [dummyRows][dummyCols]byte
}

// NewDummy constructs a ready-to-use dummy device.
func NewDummy() *Dummy {
	return &Dummy{}
}

// WriteText implements [Device].
func (d *Dummy) WriteText(s string) error {
	var r rune

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r = range s {
		if d.col >= dummyCols {
			d.col = 0
			d.row = (d.row + 1) % dummyRows
		}

		d.text[d.row][d.col] = byte(r)
		d.col++
	}

	return nil
}

// Clear implements [Device].
func (d *Dummy) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.text = [dummyRows][dummyCols]byte{}
	d.row, d.col = 0, 0

	return nil
}

// Home implements [Device].
func (d *Dummy) Home() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.row, d.col = 0, 0

	return nil
}

// GotoPos implements [Device].
func (d *Dummy) GotoPos(pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.row = pos / dummyCols % dummyRows
	d.col = pos % dummyCols

	return nil
}

// GotoLineCol implements [Device].
func (d *Dummy) GotoLineCol(line, col int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.row = (line - 1) % dummyRows
	d.col = (col - 1) % dummyCols

	return nil
}

// Backspace implements [Device].
func (d *Dummy) Backspace() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.col > 0 {
		d.col--
		d.text[d.row][d.col] = 0
	}

	return nil
}

// HTab implements [Device].
func (d *Dummy) HTab() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	const tabWidth = 4

	d.col = (d.col/tabWidth + 1) * tabWidth
	if d.col >= dummyCols {
		d.col = dummyCols - 1
	}

	return nil
}

// MoveDown implements [Device].
func (d *Dummy) MoveDown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.row = (d.row + 1) % dummyRows

	return nil
}

// MoveUp implements [Device].
func (d *Dummy) MoveUp() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.row = (d.row - 1 + dummyRows) % dummyRows

	return nil
}

// CR implements [Device].
func (d *Dummy) CR() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.col = 0

	return nil
}

// ClearColumn implements [Device].
func (d *Dummy) ClearColumn() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.text[d.row][d.col] = 0

	return nil
}

// TabSet implements [Device]. The dummy device has no programmable tab
// stops, so this is a no-op.
func (d *Dummy) TabSet(pos int) error {
	return nil
}

// SetBacklight implements [Device]. The dummy device has no backlight
// hardware to switch, so this is a no-op.
func (d *Dummy) SetBacklight(on bool) error {
	return nil
}

// SetBrightness implements [Device]. Unreachable in practice since
// Capabilities().HasBrightness is false for the dummy device.
func (d *Dummy) SetBrightness(level uint8) error {
	return nil
}

// SetContrast implements [Device]. Unreachable in practice since
// Capabilities().HasContrast is false for the dummy device.
func (d *Dummy) SetContrast(level uint8) error {
	return nil
}

// SetLedsState implements [Device]. Unreachable in practice since
// Capabilities().HasLeds is false for the dummy device.
func (d *Dummy) SetLedsState(mask uint32) error {
	return nil
}

// GetKeypadState implements [Device]. The dummy device always reports
// 0b1001, matching the reference implementation.
func (d *Dummy) GetKeypadState() (uint32, error) {
	return dummyKeypadState, nil
}

// IsLocked implements [Device]. Unreachable in practice since
// Capabilities().HasLock is false for the dummy device.
func (d *Dummy) IsLocked() (bool, error) {
	return false, nil
}

// GetVersion implements [Device].
func (d *Dummy) GetVersion() int {
	return dummyVersion
}

// Height implements [Device].
func (d *Dummy) Height() int {
	return dummyRows
}

// Width implements [Device].
func (d *Dummy) Width() int {
	return dummyCols
}

// Capabilities implements [Device].
func (d *Dummy) Capabilities() Capabilities {
	return Capabilities{
		Rows:    dummyRows,
		Cols:    dummyCols,
		Version: dummyVersion,
		Model:   "dummy",
	}
}

var _ Device = (*Dummy)(nil)
