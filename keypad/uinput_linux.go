//go:build linux

package keypad

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/pobot/lcdfs/device"
	"github.com/pobot/lcdfs/linux/input"
	"github.com/pobot/lcdfs/linux/ioctl"
)

const uinputPath = "/dev/uinput"

// deviceName is the name advertised for the virtual input-event device.
const deviceName = "ctrl-panel"

// uinputSetup mirrors struct uinput_setup from linux/uinput.h.
type uinputSetup struct {
	ID           input.ID
	Name         [80]byte
	FFEffectsMax uint32
}

var (
	uiSetEvBit   = ioctl.IOW('U', 100, int32(0))
	uiSetKeyBit  = ioctl.IOW('U', 101, int32(0))
	uiDevSetup   = ioctl.IOW('U', 3, uinputSetup{})
	uiDevCreate  = ioctl.IO('U', 1)
	uiDevDestroy = ioctl.IO('U', 2)
)

// openUinput creates and enables a virtual keyboard device advertising
// every non-absent key code in keymap.
func openUinput(keymap device.KeypadMap) (*os.File, error) {
	var (
		file  *os.File
		setup uinputSetup
		slot  int
		err   error
	)

	file, err = os.OpenFile(uinputPath, os.O_WRONLY|os.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("keypad.openUinput: %w", err)
	}

	err = setBit(file, uiSetEvBit, input.EV_KEY)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("keypad.openUinput: %w", err)
	}

	for slot = 0; slot < device.KeypadSlots; slot++ {
		if keymap[slot] == device.AbsentSlot {
			continue
		}

		err = setBit(file, uiSetKeyBit, keymap[slot])
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("keypad.openUinput: %w", err)
		}
	}

	setup.ID = input.ID{Bustype: input.BUS_VIRTUAL, Vendor: 1, Product: 1, Version: 1}
	copy(setup.Name[:], deviceName)

	err = ioctl.Any(file.Fd(), uiDevSetup, &setup)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("keypad.openUinput: %w", err)
	}

	err = ioctl.Any[byte](file.Fd(), uiDevCreate, nil)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("keypad.openUinput: %w", err)
	}

	return file, nil
}

// setBit issues a UI_SET_*BIT request, which takes the bit number as
// the ioctl argument itself rather than through a pointer.
func setBit(file *os.File, req uint, bit int) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, file.Fd(), uintptr(req), uintptr(bit))
	if errno != 0 {
		return errno
	}

	return nil
}

func closeUinput(file *os.File) {
	ioctl.Any[byte](file.Fd(), uiDevDestroy, nil)
	file.Close()
}

// writeEvent emits one input_event to the virtual device.
func writeEvent(file *os.File, evType uint16, code uint16, value int32) error {
	var (
		now   time.Time
		event input.Event
		err   error
	)

	now = time.Now()

	event = input.Event{
		Sec:   uint64(now.Unix()),
		Usec:  uint64(now.Nanosecond() / 1000),
		Type:  evType,
		Code:  code,
		Value: value,
	}

	err = writeStruct(file, &event)
	if err != nil {
		return fmt.Errorf("keypad.writeEvent: %w", err)
	}

	return nil
}

// writeStruct writes the raw memory of v to file. Used to hand
// input_event values to the kernel in the layout it expects.
func writeStruct[T any](file *os.File, v *T) error {
	var (
		buf []byte
		err error
	)

	buf = unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))

	_, err = file.Write(buf)

	return err
}
