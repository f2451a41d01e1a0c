// Package websocket streams game records to a web server over a WebSocket.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/pkg/core"
	"github.com/OCAP2/roundengine/pkg/streaming"
)

// Backend streams game records over WebSocket.
// It implements storage.Backend but not storage.Uploadable.
type Backend struct {
	conn *connection
	cfg  config.WebSocketConfig
}

// New creates a new WebSocket storage backend.
func New(cfg config.WebSocketConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	env, err := streaming.NewEnvelope(msgType, payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope is fire-and-forget.
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// StartGame sends start_game and waits for the server ack.
func (b *Backend) StartGame(info *core.GameInfo) error {
	data, err := marshalEnvelope(streaming.TypeStartGame, info)
	if err != nil {
		return err
	}
	b.conn.setStart(data)
	return b.conn.sendAndWait(data, streaming.TypeStartGame, ackTimeout)
}

// EndGame sends end_game and waits for the server ack.
func (b *Backend) EndGame(result *core.GameResult) error {
	data, err := marshalEnvelope(streaming.TypeEndGame, result)
	if err != nil {
		return err
	}
	err = b.conn.sendAndWait(data, streaming.TypeEndGame, ackTimeout)
	b.conn.setStart(nil)
	return err
}

func (b *Backend) RecordEntityState(s *core.EntityState) error {
	return b.sendEnvelope(streaming.TypeEntityState, s)
}

func (b *Backend) RecordPhase(r *core.PhaseRecord) error {
	return b.sendEnvelope(streaming.TypePhase, r)
}

func (b *Backend) RecordRound(r *core.RoundRecord) error {
	return b.sendEnvelope(streaming.TypeRound, r)
}

func (b *Backend) RecordAreaEffects(gameID string, round int, effects []core.AreaEffectRecord) error {
	return b.sendEnvelope(streaming.TypeAreaEffects, streaming.AreaEffectsPayload{
		Round:   round,
		Effects: effects,
	})
}
