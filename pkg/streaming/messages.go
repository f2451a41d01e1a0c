package streaming

import (
	"encoding/json"

	"github.com/OCAP2/roundengine/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartGame   = "start_game"
	TypeEndGame     = "end_game"
	TypeEntityState = "entity_state"
	TypePhase       = "phase"
	TypeRound       = "round"
	TypeAreaEffects = "area_effects"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// AreaEffectsPayload is the full set of active area effects.
type AreaEffectsPayload struct {
	Round   int                     `json:"round"`
	Effects []core.AreaEffectRecord `json:"effects"`
}

// NewEnvelope marshals payload under msgType.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: msgType, Payload: raw}, nil
}
