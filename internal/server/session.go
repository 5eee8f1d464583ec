package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/game/ai"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

// Message is the wire envelope for client commands and server pushes.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type initGamePayload struct {
	Mode    string `json:"mode"`
	Players []struct {
		Name       string `json:"name"`
		IsAI       bool   `json:"is_ai"`
		Difficulty string `json:"difficulty"`
	} `json:"players"`
}

type selectCardPayload struct {
	InstanceID string `json:"instance_id"`
}

type playCardPayload struct {
	ZoneID     int    `json:"zone_id"`
	InstanceID string `json:"instance_id"`
}

// ReportSink receives finished match reports; the database repository
// implements it, and a nil sink drops reports.
type ReportSink interface {
	Save(ctx context.Context, report *game.MatchReport) error
}

// Session owns one match: the authoritative state, replay recording, and
// the AI pacing loop. All state replacement happens under its mutex.
type Session struct {
	mu       sync.Mutex
	engine   *game.Engine
	state    *game.State
	recorder *game.ReplayRecorder
	reports  ReportSink
	aiRand   *random.Source
	logger   *zap.Logger

	aiCancel context.CancelFunc
	publish  func(StateView)
}

// NewSession creates a session in the menu state. publish is called with a
// fresh view after every state change; recorder and reports may be nil.
func NewSession(engine *game.Engine, recorder *game.ReplayRecorder, reports ReportSink, aiRand *random.Source, logger *zap.Logger, publish func(StateView)) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publish == nil {
		publish = func(StateView) {}
	}
	return &Session{
		engine:   engine,
		state:    engine.ResetGame(),
		recorder: recorder,
		reports:  reports,
		aiRand:   aiRand,
		logger:   logger,
		publish:  publish,
	}
}

// View returns the current state view.
func (sess *Session) View() StateView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return buildStateView(sess.state)
}

// Handle dispatches one client command. Unknown commands are answered with
// the unchanged state so clients always resync.
func (sess *Session) Handle(msg Message) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch msg.Type {
	case "init_game":
		var payload initGamePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return fmt.Errorf("invalid init_game payload: %w", err)
		}
		sess.initGameLocked(payload)

	case "roll_die":
		sess.replaceLocked(sess.engine.RollDie(sess.state))

	case "resolve_event":
		sess.replaceLocked(sess.engine.ResolveEvent(sess.state))

	case "select_card":
		var payload selectCardPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return fmt.Errorf("invalid select_card payload: %w", err)
		}
		inst := sess.findInstanceLocked(payload.InstanceID)
		sess.replaceLocked(sess.engine.SelectCard(sess.state, inst))

	case "play_card":
		var payload playCardPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return fmt.Errorf("invalid play_card payload: %w", err)
		}
		var inst *cards.Instance
		if payload.InstanceID != "" {
			inst = sess.findInstanceLocked(payload.InstanceID)
		}
		sess.replaceLocked(sess.engine.PlayCard(sess.state, payload.ZoneID, inst))

	case "next_turn":
		sess.replaceLocked(sess.engine.NextTurn(sess.state))

	case "pass_turn":
		sess.replaceLocked(sess.engine.PassTurn(sess.state))

	case "reset_game":
		sess.stopAILocked()
		sess.replaceLocked(sess.engine.ResetGame())

	case "get_state":
		sess.publish(buildStateView(sess.state))

	default:
		return fmt.Errorf("unknown command: %s", msg.Type)
	}
	return nil
}

// findInstanceLocked resolves an instance id against the acting player's
// hand. A miss returns nil; the engine answers nil instances with a status
// message instead of an error.
func (sess *Session) findInstanceLocked(instanceID string) *cards.Instance {
	player := sess.state.CurrentPlayer()
	if player == nil {
		return nil
	}
	for i := range player.Hand {
		if player.Hand[i].InstanceID == instanceID {
			inst := player.Hand[i]
			return &inst
		}
	}
	return nil
}

func (sess *Session) initGameLocked(payload initGamePayload) {
	sess.stopAILocked()

	mode := game.ModeLocalMultiplayer
	switch payload.Mode {
	case "single_player":
		mode = game.ModeSinglePlayer
	case "tutorial":
		mode = game.ModeTutorial
	}

	configs := make([]game.PlayerConfig, len(payload.Players))
	for i, p := range payload.Players {
		configs[i] = game.PlayerConfig{
			Name:       p.Name,
			IsAI:       p.IsAI,
			Difficulty: game.ParseDifficulty(p.Difficulty),
		}
	}
	if len(configs) == 0 {
		configs = []game.PlayerConfig{{Name: "Player 1"}, {Name: "Player 2"}}
	}

	sess.state = sess.engine.InitGame(mode, configs)
	if sess.recorder != nil {
		sess.recorder.StartRecording(sess.state.MatchID)
		sess.recorder.RecordState(sess.state.MatchID, sess.state)
	}
	sess.publish(buildStateView(sess.state))
	sess.scheduleAILocked()
}

// replaceLocked swaps in the successor state, records it, publishes the new
// view, and keeps the AI loop moving.
func (sess *Session) replaceLocked(next *game.State) {
	sess.state = next
	if sess.recorder != nil && next.MatchID != "" {
		sess.recorder.RecordState(next.MatchID, next)
	}
	sess.publish(buildStateView(next))

	if next.Phase == rules.PhaseGameOver {
		sess.finishLocked()
		return
	}
	sess.scheduleAILocked()
}

// finishLocked runs end-of-match bookkeeping: the report and the replay
// file.
func (sess *Session) finishLocked() {
	sess.stopAILocked()

	report := game.GenerateMatchReport(sess.state)
	if report == nil {
		return
	}
	sess.logger.Info("match finished",
		zap.String("match_id", report.MatchID),
		zap.String("winner", report.Winner),
		zap.Int("turns", report.TotalTurns),
	)

	if sess.reports != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := sess.reports.Save(ctx, report); err != nil {
				sess.logger.Error("failed to save match report",
					zap.String("match_id", report.MatchID),
					zap.Error(err),
				)
			}
		}()
	}

	if sess.recorder != nil {
		matchID := sess.state.MatchID
		go func() {
			if err := sess.recorder.SaveReplay(matchID); err != nil {
				sess.logger.Error("failed to save replay",
					zap.String("match_id", matchID),
					zap.Error(err),
				)
			}
		}()
	}
}

// scheduleAILocked arms a one-shot timer for the next AI step when the
// acting seat is AI-controlled. The thinking delay keeps spectated games
// watchable.
func (sess *Session) scheduleAILocked() {
	player := sess.state.CurrentPlayer()
	if player == nil || !player.IsAI || sess.state.Phase.Terminal() {
		return
	}

	sess.stopAILocked()
	ctx, cancel := context.WithCancel(context.Background())
	sess.aiCancel = cancel

	delay := sess.engine.Settings().AIThinkingDelay
	timer := time.NewTimer(delay)
	go func() {
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			sess.stepAI()
		}
	}()
}

func (sess *Session) stopAILocked() {
	if sess.aiCancel != nil {
		sess.aiCancel()
		sess.aiCancel = nil
	}
}

// stepAI performs one AI action for the current phase.
func (sess *Session) stepAI() {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	player := sess.state.CurrentPlayer()
	if player == nil || !player.IsAI || sess.state.Phase.Terminal() {
		return
	}

	switch sess.state.Phase {
	case rules.PhaseRoll:
		sess.replaceLocked(sess.engine.RollDie(sess.state))

	case rules.PhaseResolveEvent:
		sess.replaceLocked(sess.engine.ResolveEvent(sess.state))

	case rules.PhaseAction:
		brain := ai.NewPlayer(player.Difficulty, sess.aiRand, sess.logger)
		decision, ok := brain.Decide(sess.engine, sess.state, sess.state.CurrentPlayerIndex)
		if !ok {
			sess.replaceLocked(sess.engine.PassTurn(sess.state))
			return
		}
		sess.logger.Info("ai plays card",
			zap.String("match_id", sess.state.MatchID),
			zap.String("player", player.Name),
			zap.String("reasoning", decision.Reasoning),
		)
		sess.replaceLocked(sess.engine.PlayCard(sess.state, decision.ZoneID, &decision.Card))

	case rules.PhaseActionResolved:
		sess.replaceLocked(sess.engine.NextTurn(sess.state))
	}
}
