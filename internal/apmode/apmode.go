// Package apmode toggles the host between client Wi-Fi and
// access-point mode for on-site streaming when no network is
// available. A supplemented feature (spec.md's distillation drops
// it; SPEC_FULL.md §3 brings it back). original_source/ws_audio.py's
// toggle-ap-mode handler only acks a no-op; this package performs the
// toggle by starting or stopping a hostapd/dnsmasq systemd unit pair
// via subprocess. There
// is no pack library wrapping systemd unit control, so this stays a
// deliberate os/exec exception, same class as internal/btdiscovery's
// bluetoothctl wrappers.
package apmode

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("apmode")

// Units names the two systemd units toggled together.
type Units struct {
	Hostapd string
	DNSMasq string
}

// runSystemctl is overridden in tests; production code always shells
// out to the real systemctl binary.
var runSystemctl = func(ctx context.Context, verb, unit string) error {
	return exec.CommandContext(ctx, "systemctl", verb, unit).Run()
}

func systemctl(ctx context.Context, verb, unit string) error {
	if err := runSystemctl(ctx, verb, unit); err != nil {
		return fmt.Errorf("apmode: systemctl %s %s: %w", verb, unit, err)
	}
	return nil
}

// Enable starts the access-point unit pair.
func (u Units) Enable(ctx context.Context) error {
	if err := systemctl(ctx, "start", u.Hostapd); err != nil {
		return err
	}
	if err := systemctl(ctx, "start", u.DNSMasq); err != nil {
		return err
	}
	log.Info("AP mode enabled", "hostapd", u.Hostapd, "dnsmasq", u.DNSMasq)
	return nil
}

// Disable stops the access-point unit pair, returning to client mode.
func (u Units) Disable(ctx context.Context) error {
	if err := systemctl(ctx, "stop", u.DNSMasq); err != nil {
		return err
	}
	if err := systemctl(ctx, "stop", u.Hostapd); err != nil {
		return err
	}
	log.Info("AP mode disabled", "hostapd", u.Hostapd, "dnsmasq", u.DNSMasq)
	return nil
}

// Toggle enables or disables based on want.
func (u Units) Toggle(ctx context.Context, want bool) error {
	if want {
		return u.Enable(ctx)
	}
	return u.Disable(ctx)
}
