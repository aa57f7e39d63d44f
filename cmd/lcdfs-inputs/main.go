// Command lcdfs-inputs lists the evdev devices visible on the host,
// including the virtual "ctrl-panel" keyboard lcdfs creates while mounted.
//
// It enumerates /dev/input/event*, reads each device's bus identifier,
// name, and supported event types/codes, and prints a short report.
// It is a diagnostic companion to the daemon, not something the daemon
// itself runs.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pobot/lcdfs/linux/input"
)

func exitIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "lcdfs-inputs:", err)
		os.Exit(1)
	}
}

func main() {
	var (
		devs    []*input.Device
		dev     *input.Device
		id, name string
		events  []input.EventType
		event   input.EventType
		codes   []input.Code
		code    input.Code
		builder strings.Builder
		err     error
	)

	devs, err = input.Devices()
	exitIf(err)

	for _, dev = range devs {
		id, err = dev.ID()
		exitIf(err)

		name, err = dev.Name()
		exitIf(err)

		events, err = dev.Events()
		exitIf(err)

		builder.WriteString(fmt.Sprintf("ID: %s\nName: %s\n", id, name))
		builder.WriteString("Supported events:\n")

		for _, event = range events {
			codes, err = dev.Codes(event)
			exitIf(err)

			builder.WriteString(fmt.Sprintf("  type 0x%02x:\n", event))

			for _, code = range codes {
				builder.WriteString(fmt.Sprintf("    code %d\n", code))
			}
		}

		err = dev.Close()
		exitIf(err)

		builder.WriteString(strings.Repeat("-", 60))
		builder.WriteByte('\n')
	}

	fmt.Print(builder.String())
}
