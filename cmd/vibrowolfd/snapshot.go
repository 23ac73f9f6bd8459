package main

import (
	"encoding/json"

	"github.com/vibrowolf/vibrowolf/internal/engine"
)

// treatmentState is the JSON body of a treatment-state:<json> frame
// (spec.md §6), a compact read-only view of PlayerState for clients
// that want to resynchronize their UI (e.g. after reconnecting).
type treatmentState struct {
	Mode          string `json:"mode"`
	SequenceIndex int    `json:"sequenceIndex"`
	MixValue      int    `json:"mixValue"`
	BTMono        bool   `json:"btMono"`
	Paused        bool   `json:"paused"`
}

func treatmentStateJSON(eng *engine.Engine) string {
	s := eng.State()
	body, err := json.Marshal(treatmentState{
		Mode:          s.Mode.String(),
		SequenceIndex: s.SequenceIndex,
		MixValue:      s.MixValue,
		BTMono:        s.BTMono,
		Paused:        s.Mode == engine.Paused,
	})
	if err != nil {
		return "{}"
	}
	return string(body)
}
