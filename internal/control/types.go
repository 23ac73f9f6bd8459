// Package control implements the WebSocket JSON control plane spec.md
// §6 describes: inbound actions that become engine.Command values,
// and outbound plain-text notification frames drained from the
// engine's notification queue at 10Hz. Grounded structurally on the
// teacher's src/server.go (one goroutine per client connection, one
// command-reader goroutine per client, a big switch over action
// kind), rewired onto github.com/gorilla/websocket (an enrichment
// dependency, seen in other_examples/goop2) in place of teacher's raw
// net.Conn AGWPE TCP framing.
package control

import (
	"encoding/json"
	"fmt"
)

// inMessage is the envelope every inbound control-plane frame is
// decoded into before being routed by Action.
type inMessage struct {
	Action string `json:"action"`

	Row         rowJSON          `json:"row"`
	Rows        []rowJSON        `json:"rows"`
	ResumeState *resumeStateJSON `json:"resumeState"`
	Control     string           `json:"control"`
	Value       int              `json:"value"`
	Mono        bool             `json:"mono"`
	Data        string           `json:"data"`
	MAC         string           `json:"mac"`
	Enabled     bool             `json:"enabled"`
}

// rowJSON mirrors engine.Row's field names as the control plane's
// wire schema, matching spec.md §8's seed-case field names (time,
// frequency, freqSweep, sweepSpeed, phase, modSpeed, mode, strength,
// neck, back, thighs, legs).
type rowJSON struct {
	TimeS        float64 `json:"time"`
	FrequencyHz  float64 `json:"frequency"`
	FreqSweepHz  float64 `json:"freqSweep"`
	SweepSpeedHz float64 `json:"sweepSpeed"`
	PhaseDeg     float64 `json:"phase"`
	ModSpeedStep int     `json:"modSpeed"`
	Mode         int     `json:"mode"`
	Strength     int     `json:"strength"`
	Neck         int     `json:"neck"`
	Back         int     `json:"back"`
	Thighs       int     `json:"thighs"`
	Legs         int     `json:"legs"`
}

// resumeStateJSON is the client-supplied snapshot payload for
// `resume`, when the client chooses to carry its own copy of the
// engine's last-emitted snapshot rather than relying on the engine's
// in-memory one (spec.md §7 "Resume without snapshot").
type resumeStateJSON struct {
	Row            rowJSON         `json:"row"`
	ElapsedAtPause float64         `json:"elapsedAtPause"`
	CarrierPhase   float64         `json:"carrierPhase"`
	ModPhase       [4]modPhaseJSON `json:"modPhase"`
	SequenceIndex  int             `json:"sequenceIndex"`
	IsSequence     bool            `json:"isSequence"`
}

// modPhaseJSON mirrors engine.OutputPhase, one per output (neck, back,
// thighs, legs), so a client-supplied resume payload can carry
// modulator phase alongside carrier phase instead of resetting it to
// zero on resume.
type modPhaseJSON struct {
	SinePhase float64 `json:"sinePhase"`
	PeriodPos float64 `json:"periodPos"`
	BurstIdx  int     `json:"burstIdx"`
}

// controlField/action-name constants, matching spec.md §6's tables
// verbatim.
const (
	ActionPlaySelected    = "play-selected"
	ActionPlayAll         = "play-all"
	ActionPause           = "pause"
	ActionResume          = "resume"
	ActionStop            = "stop"
	ActionSetUserControl  = "set-user-control"
	ActionSetMix          = "set-mix"
	ActionBTSetMono       = "bt-set-mono"
	ActionWifiStreamStart = "wifi-stream-start"
	ActionWifiStreamStop  = "wifi-stream-stop"
	ActionWifiStreamData  = "wifi-stream-data"

	// Supplemented control-plane actions (SPEC_FULL.md §3): BlueZ
	// paired-device management and Wi-Fi AP/client toggle, present in
	// original_source/ws_audio.py's WebSocketHandler but dropped by
	// spec.md's distillation.
	ActionBTRemoveDevice = "bt-remove-device"
	ActionBTForgetAll    = "bt-forget-all"
	ActionBTListPaired   = "bt-list-paired"
	ActionToggleAPMode   = "toggle-ap-mode"

	ControlMaster = "master"
	ControlNeck   = "neck"
	ControlBack   = "back"
	ControlThighs = "thighs"
	ControlLegs   = "legs"
)

func parseInMessage(data []byte) (inMessage, error) {
	var m inMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return inMessage{}, fmt.Errorf("control: badjson: %w", err)
	}
	return m, nil
}

// ackFrame, errorFrame, highlightFrame, etc. build the plain-text
// outbound frames spec.md §6 names verbatim: ack:<action>[:payload],
// error:<code>, highlight:<index>, clear:highlight, pause:complete,
// resume:complete, treatment-state:<json-snapshot>.
func ackFrame(action string) string { return "ack:" + action }
func ackFrameWith(action, payload string) string {
	return fmt.Sprintf("ack:%s:%s", action, payload)
}
func errorFrame(code string) string          { return "error:" + code }
func highlightFrame(index int) string        { return fmt.Sprintf("highlight:%d", index) }
func treatmentStateFrame(json string) string { return "treatment-state:" + json }

const (
	frameClearHighlight = "clear:highlight"
	framePauseComplete  = "pause:complete"
	frameResumeComplete = "resume:complete"
	errBadJSON          = "badjson"
	errUnknownAction    = "unknown"
	errNothingToPlay    = "nothing-to-play"
)
