package control

import (
	"context"
	"encoding/json"

	"github.com/vibrowolf/vibrowolf/internal/apmode"
	"github.com/vibrowolf/vibrowolf/internal/btdiscovery"
)

// Peripherals bundles the supplemented-feature collaborators
// (SPEC_FULL.md §3) that a handful of control actions reach into
// directly rather than through the engine command queue, since none
// of them touch PlayerState. With a zero Peripherals (no APUnits),
// toggle-ap-mode responds error:unknown; the bt-* actions do not
// consult Peripherals and always shell out to bluetoothctl.
type Peripherals struct {
	APUnits *apmode.Units
}

// WithPeripherals attaches the supplemented-feature collaborators to
// an already-constructed Server.
func (s *Server) WithPeripherals(p Peripherals) *Server {
	s.peripherals = p
	return s
}

// handlePeripheralAction answers the four supplemented actions
// (bt-remove-device, bt-forget-all, bt-list-paired, toggle-ap-mode).
// It is tried before the engine-command translate() path in
// handleMessage.
func (s *Server) handlePeripheralAction(msg inMessage) (frame string, handled bool) {
	ctx := context.Background()
	switch msg.Action {
	case ActionBTRemoveDevice:
		if msg.MAC == "" {
			return errorFrame(errUnknownAction), true
		}
		if err := btdiscovery.RemoveDevice(ctx, msg.MAC); err != nil {
			log.Warn("bt-remove-device failed", "err", err)
			return errorFrame("bt-remove-failed"), true
		}
		return ackFrame(msg.Action), true

	case ActionBTForgetAll:
		if err := btdiscovery.ForgetAll(ctx); err != nil {
			log.Warn("bt-forget-all failed", "err", err)
			return errorFrame("bt-forget-failed"), true
		}
		return ackFrame(msg.Action), true

	case ActionBTListPaired:
		devices, err := btdiscovery.ListPaired(ctx)
		if err != nil {
			log.Warn("bt-list-paired failed", "err", err)
			return errorFrame("bt-list-failed"), true
		}
		body, _ := json.Marshal(devices)
		return ackFrameWith(msg.Action, string(body)), true

	case ActionToggleAPMode:
		if s.peripherals.APUnits == nil {
			return errorFrame(errUnknownAction), true
		}
		if err := s.peripherals.APUnits.Toggle(ctx, msg.Enabled); err != nil {
			log.Warn("toggle-ap-mode failed", "err", err)
			return errorFrame("ap-toggle-failed"), true
		}
		return ackFrame(msg.Action), true

	default:
		return "", false
	}
}
