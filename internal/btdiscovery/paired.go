package btdiscovery

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PairedDevice is one entry from `bluetoothctl devices`.
type PairedDevice struct {
	MAC  string
	Name string
}

// ListPaired shells out to bluetoothctl devices, the same subprocess
// approach original_source/ws_audio.py uses for every BlueZ
// interaction (there is no pack library for BlueZ D-Bus control, so
// this remains the documented stdlib/os-exec exception).
func ListPaired(ctx context.Context) ([]PairedDevice, error) {
	out, err := exec.CommandContext(ctx, "bluetoothctl", "devices").Output()
	if err != nil {
		return nil, fmt.Errorf("btdiscovery: bluetoothctl devices: %w", err)
	}
	return parseDevicesOutput(string(out)), nil
}

// parseDevicesOutput parses `bluetoothctl devices` stdout, one device
// per "Device AA:BB:CC:DD:EE:FF Some Device Name" line. Split out from
// ListPaired so the parsing logic is testable without a bluetoothctl
// binary on hand.
func parseDevicesOutput(out string) []PairedDevice {
	var devices []PairedDevice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.SplitN(sc.Text(), " ", 3)
		if len(fields) != 3 || fields[0] != "Device" {
			continue
		}
		devices = append(devices, PairedDevice{MAC: fields[1], Name: fields[2]})
	}
	return devices
}

// RemoveDevice unpairs a single device by MAC address
// (bt-remove-device).
func RemoveDevice(ctx context.Context, mac string) error {
	if err := exec.CommandContext(ctx, "bluetoothctl", "remove", mac).Run(); err != nil {
		return fmt.Errorf("btdiscovery: bluetoothctl remove %s: %w", mac, err)
	}
	log.Info("removed paired device", "mac", mac)
	return nil
}

// ForgetAll unpairs every currently paired device (bt-forget-all).
func ForgetAll(ctx context.Context) error {
	devices, err := ListPaired(ctx)
	if err != nil {
		return err
	}
	for _, d := range devices {
		if err := RemoveDevice(ctx, d.MAC); err != nil {
			return err
		}
	}
	log.Info("forgot all paired devices", "count", len(devices))
	return nil
}
