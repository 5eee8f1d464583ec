package server

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

type viewCapture struct {
	mu    sync.Mutex
	views []StateView
}

func (vc *viewCapture) publish(v StateView) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.views = append(vc.views, v)
}

func (vc *viewCapture) last() (StateView, bool) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if len(vc.views) == 0 {
		return StateView{}, false
	}
	return vc.views[len(vc.views)-1], true
}

func newTestSession(t *testing.T, settings rules.Settings) (*Session, *viewCapture) {
	t.Helper()
	catalog, err := cards.Load()
	require.NoError(t, err)
	engine := game.New(settings, catalog, random.NewSource(13), nil)

	vc := &viewCapture{}
	sess := NewSession(engine, nil, nil, random.NewSource(14), nil, vc.publish)
	return sess, vc
}

func command(t *testing.T, msgType string, payload any) Message {
	t.Helper()
	msg := Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		msg.Data = data
	}
	return msg
}

func initTwoHumans(t *testing.T, sess *Session) {
	t.Helper()
	require.NoError(t, sess.Handle(command(t, "init_game", map[string]any{
		"mode": "local_multiplayer",
		"players": []map[string]any{
			{"name": "Alice"},
			{"name": "Bob"},
		},
	})))
}

func TestSessionStartsAtMenu(t *testing.T) {
	sess, _ := newTestSession(t, rules.DefaultSettings())

	view := sess.View()
	require.Equal(t, "MENU", view.Phase)
	require.Empty(t, view.Players)
}

func TestSessionInitGame(t *testing.T) {
	sess, vc := newTestSession(t, rules.DefaultSettings())
	initTwoHumans(t, sess)

	view, ok := vc.last()
	require.True(t, ok)
	require.Equal(t, "ROLL", view.Phase)
	require.Len(t, view.Players, 2)
	require.Equal(t, "GOOD", view.Players[0].Team)
	require.Equal(t, "BAD", view.Players[1].Team)
	require.NotEmpty(t, view.Players[0].Hand, "human hands are visible in hot-seat play")
	require.False(t, view.IsSpectator)
}

func TestSessionTurnFlow(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.GlobalEventThreshold = settings.DieSides + 1 // keep events out of the flow
	sess, vc := newTestSession(t, settings)
	initTwoHumans(t, sess)

	require.NoError(t, sess.Handle(command(t, "roll_die", nil)))
	view, _ := vc.last()
	require.Equal(t, "ACTION", view.Phase)
	require.NotZero(t, view.CurrentDieRoll)

	// Find a playable card and zone via the engine's own legality check.
	sess.mu.Lock()
	state := sess.state
	engine := sess.engine
	var instanceID string
	var zoneID int
	for _, inst := range state.Players[0].Hand {
		for z := range state.Zones {
			if engine.CanPlayCard(state, inst.Card, z) {
				instanceID = inst.InstanceID
				zoneID = z
				break
			}
		}
		if instanceID != "" {
			break
		}
	}
	sess.mu.Unlock()
	require.NotEmpty(t, instanceID)

	require.NoError(t, sess.Handle(command(t, "play_card", playCardPayload{
		ZoneID:     zoneID,
		InstanceID: instanceID,
	})))
	view, _ = vc.last()
	require.Contains(t, []string{"ACTION_RESOLVED", "GAME_OVER"}, view.Phase)

	if view.Phase == "ACTION_RESOLVED" {
		require.NoError(t, sess.Handle(command(t, "next_turn", nil)))
		view, _ = vc.last()
		require.Equal(t, "ROLL", view.Phase)
		require.Equal(t, 1, view.CurrentPlayerIndex)
	}
}

func TestSessionSelectCard(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.GlobalEventThreshold = settings.DieSides + 1
	sess, vc := newTestSession(t, settings)
	initTwoHumans(t, sess)

	require.NoError(t, sess.Handle(command(t, "roll_die", nil)))

	sess.mu.Lock()
	instanceID := sess.state.Players[0].Hand[0].InstanceID
	sess.mu.Unlock()

	require.NoError(t, sess.Handle(command(t, "select_card", selectCardPayload{InstanceID: instanceID})))
	view, _ := vc.last()
	require.Equal(t, instanceID, view.SelectedCardID)
}

func TestSessionRejectsUnknownCommand(t *testing.T) {
	sess, _ := newTestSession(t, rules.DefaultSettings())
	require.Error(t, sess.Handle(command(t, "cast_fireball", nil)))
}

func TestSessionRejectsMalformedPayload(t *testing.T) {
	sess, _ := newTestSession(t, rules.DefaultSettings())
	require.Error(t, sess.Handle(Message{Type: "init_game", Data: json.RawMessage(`{"players": 3}`)}))
}

func TestSessionResetReturnsToMenu(t *testing.T) {
	sess, vc := newTestSession(t, rules.DefaultSettings())
	initTwoHumans(t, sess)

	require.NoError(t, sess.Handle(command(t, "reset_game", nil)))
	view, _ := vc.last()
	require.Equal(t, "MENU", view.Phase)
}

func TestSpectatorMatchRunsOnItsOwn(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.AIThinkingDelay = time.Millisecond
	sess, vc := newTestSession(t, settings)

	require.NoError(t, sess.Handle(command(t, "init_game", map[string]any{
		"mode": "local_multiplayer",
		"players": []map[string]any{
			{"name": "Bot A", "is_ai": true, "difficulty": "hard"},
			{"name": "Bot B", "is_ai": true, "difficulty": "medium"},
		},
	})))

	view, _ := vc.last()
	require.True(t, view.IsSpectator)

	// With both seats AI-driven the match advances without further input.
	require.Eventually(t, func() bool {
		v, ok := vc.last()
		return ok && (v.TurnNumber >= 2 || v.Phase == "GAME_OVER")
	}, 10*time.Second, 10*time.Millisecond)

	require.NoError(t, sess.Handle(command(t, "reset_game", nil)))
}

func TestAIHiddenHandInView(t *testing.T) {
	sess, vc := newTestSession(t, rules.DefaultSettings())
	require.NoError(t, sess.Handle(command(t, "init_game", map[string]any{
		"mode": "single_player",
		"players": []map[string]any{
			{"name": "Human"},
			{"name": "Bot", "is_ai": true, "difficulty": "easy"},
		},
	})))

	view, _ := vc.last()
	require.NotEmpty(t, view.Players[0].Hand)
	require.Empty(t, view.Players[1].Hand, "AI hands stay hidden")
	require.Equal(t, 3, view.Players[1].HandCount)
	require.Equal(t, "easy", view.Players[1].Difficulty)
}
