// Package btdiscovery announces the control-plane WebSocket over mDNS
// and manages paired Bluetooth A2DP devices, directly adapted from
// the teacher's src/dns_sd.go (github.com/brutella/dnssd service
// announcement, no system daemon required) plus
// original_source/ws_audio.py's bluetoothctl subprocess wrappers for
// paired-device management, a supplemented feature spec.md's
// distillation dropped (see SPEC_FULL.md §3).
package btdiscovery

import (
	"context"
	"fmt"
	"os"

	"github.com/brutella/dnssd"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("btdiscovery")

// ServiceType is the mDNS/DNS-SD service type the control plane
// announces itself under.
const ServiceType = "_vibrowolf-ctl._tcp"

// Announce advertises the control WebSocket on port via mDNS under
// name (or a hostname-derived default if name is empty), the same
// dnssd.Config/NewService/NewResponder/Add sequence as
// src/dns_sd.go's dns_sd_announce, generalized from a fixed KISS
// service type to the control plane's.
func Announce(ctx context.Context, name string, port int) error {
	if name == "" {
		name = defaultServiceName()
	}

	cfg := dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
	}

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("btdiscovery: creating service: %w", err)
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("btdiscovery: creating responder: %w", err)
	}

	if _, err := rp.Add(sv); err != nil {
		return fmt.Errorf("btdiscovery: adding service: %w", err)
	}

	log.Info("announcing control plane", "name", name, "type", ServiceType, "port", port)

	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			log.Error("mDNS responder stopped", "err", err)
		}
	}()
	return nil
}

func defaultServiceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "vibrowolf"
	}
	return "vibrowolf @ " + host
}
