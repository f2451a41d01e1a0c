package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/internal/storage"
	"github.com/OCAP2/roundengine/pkg/core"
	"github.com/OCAP2/roundengine/pkg/streaming"
)

// Compile-time interface check.
var _ storage.Backend = (*Backend)(nil)

// testServer upgrades to WebSocket, records received envelopes, and acks
// start_game and end_game.
func testServer(t *testing.T) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ml.setSecret(r.URL.Query().Get("secret"))
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env streaming.Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)

			if env.Type == streaming.TypeStartGame || env.Type == streaming.TypeEndGame {
				data, _ := json.Marshal(streaming.AckMessage{Type: "ack", For: env.Type})
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(srv.Close)

	return srv, ml
}

type messageLog struct {
	mu       sync.Mutex
	secret   string
	messages []streaming.Envelope
}

func (m *messageLog) setSecret(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = s
}

func (m *messageLog) add(env streaming.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) all() []streaming.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]streaming.Envelope(nil), m.messages...)
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newBackend(t *testing.T, srv *httptest.Server) *Backend {
	t.Helper()
	b := New(config.WebSocketConfig{URL: wsURL(srv), Secret: "test"}, nil)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestStartAndEndGame(t *testing.T) {
	srv, ml := testServer(t)
	b := newBackend(t, srv)

	require.NoError(t, b.StartGame(&core.GameInfo{ID: "g1", Name: "duel"}))
	require.NoError(t, b.EndGame(&core.GameResult{GameID: "g1", Rounds: 4, WinningTeam: 2}))

	msgs := ml.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, streaming.TypeStartGame, msgs[0].Type)
	assert.Equal(t, streaming.TypeEndGame, msgs[1].Type)

	var result core.GameResult
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &result))
	assert.Equal(t, 2, result.WinningTeam)

	ml.mu.Lock()
	assert.Equal(t, "test", ml.secret)
	ml.mu.Unlock()
}

func TestFireAndForgetMessages(t *testing.T) {
	srv, ml := testServer(t)
	b := newBackend(t, srv)

	require.NoError(t, b.StartGame(&core.GameInfo{ID: "g1"}))
	require.NoError(t, b.RecordEntityState(&core.EntityState{GameID: "g1", EntityID: 1}))
	require.NoError(t, b.RecordPhase(&core.PhaseRecord{GameID: "g1", Round: 1, Phase: "MOVEMENT"}))
	require.NoError(t, b.RecordRound(&core.RoundRecord{GameID: "g1", Round: 1}))
	require.NoError(t, b.RecordAreaEffects("g1", 1, []core.AreaEffectRecord{{ID: 1, Kind: "emp_interference"}}))
	// end_game is acked after everything queued before it was read
	require.NoError(t, b.EndGame(&core.GameResult{GameID: "g1"}))

	types := make(map[string]int)
	for _, m := range ml.all() {
		types[m.Type]++
	}
	assert.Equal(t, map[string]int{
		streaming.TypeStartGame:   1,
		streaming.TypeEntityState: 1,
		streaming.TypePhase:       1,
		streaming.TypeRound:       1,
		streaming.TypeAreaEffects: 1,
		streaming.TypeEndGame:     1,
	}, types)
}

func TestAreaEffectsPayload(t *testing.T) {
	srv, ml := testServer(t)
	b := newBackend(t, srv)

	require.NoError(t, b.RecordAreaEffects("g1", 3, []core.AreaEffectRecord{{ID: 7, Radius: 2}}))
	require.Eventually(t, func() bool { return len(ml.all()) == 1 }, time.Second, 10*time.Millisecond)

	var p streaming.AreaEffectsPayload
	require.NoError(t, json.Unmarshal(ml.all()[0].Payload, &p))
	assert.Equal(t, 3, p.Round)
	require.Len(t, p.Effects, 1)
	assert.Equal(t, 7, p.Effects[0].ID)
}

func TestEndGameTimesOutWithoutAck(t *testing.T) {
	upgrader := ws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	b := New(config.WebSocketConfig{URL: wsURL(srv)}, nil)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	data, err := marshalEnvelope(streaming.TypeEndGame, nil)
	require.NoError(t, err)
	assert.Error(t, b.conn.sendAndWait(data, streaming.TypeEndGame, 50*time.Millisecond))
}

func TestInitFailsWithoutServer(t *testing.T) {
	b := New(config.WebSocketConfig{URL: "ws://127.0.0.1:1/stream"}, nil)
	assert.Error(t, b.Init())
}
