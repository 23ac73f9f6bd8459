package audiosink

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
	"golang.org/x/sys/unix"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

// Probe confirms /dev is a real, mounted filesystem before attempting
// to open an audio device, the same direct golang.org/x/sys/unix
// sanity check style teacher applies before touching a device node in
// src/serial_port.go.
func Probe() error {
	var st unix.Statfs_t
	if err := unix.Statfs("/dev", &st); err != nil {
		return fmt.Errorf("audiosink: /dev not available: %w", err)
	}
	return nil
}

// Enumerate lists sound-subsystem devices known to udev whose ID_MODEL
// (or sysname, when ID_MODEL is empty) contains substr, the Go-native analogue of teacher's
// ALSA device-name matching in src/audio.go.
func Enumerate(substr string) ([]string, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("sound"); err != nil {
		return nil, fmt.Errorf("audiosink: matching sound subsystem: %w", err)
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("audiosink: enumerating udev devices: %w", err)
	}

	var names []string
	for _, d := range devices {
		name := d.PropertyValue("ID_MODEL")
		if name == "" {
			name = d.Sysname()
		}
		if containsFold(name, substr) {
			names = append(names, name)
		}
	}
	return names, nil
}

// Watch subscribes to udev's netlink monitor for sound-subsystem
// add/remove events and invokes onChange for each, until ctx is
// cancelled. It is the push-based replacement for
// original_source/ws_audio.py's monitor_device() poll loop: go-udev's
// monitor already gives us a device-change event stream, so a poll is
// unnecessary.
func Watch(ctx context.Context, onChange func(action, name string)) error {
	u := udev.Udev{}
	m := u.NewMonitorFromNetlink("udev")
	if err := m.FilterAddMatchSubsystem("sound"); err != nil {
		return fmt.Errorf("audiosink: filtering monitor: %w", err)
	}

	devCh, errCh, err := m.DeviceChan(ctx)
	if err != nil {
		return fmt.Errorf("audiosink: starting udev monitor: %w", err)
	}

	wlog := logging.For("sink")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-devCh:
				if !ok {
					return
				}
				name := d.PropertyValue("ID_MODEL")
				if name == "" {
					name = d.Sysname()
				}
				onChange(d.Action(), name)
			case err, ok := <-errCh:
				if !ok {
					return
				}
				wlog.Warn("udev monitor error", "err", err)
			}
		}
	}()
	return nil
}
