// Package game implements the Gutlands match engine: the aggregate game
// state, the action entry points that advance it, and the queries the
// presentation layer reads.
//
// The engine follows an immutable-snapshot discipline: every action takes
// the current state and returns a new state value; callers own replacement.
// Invalid or out-of-phase actions return a state that differs only in its
// status message.
package game

import (
	"fmt"
	"time"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/meter"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
)

// maxLogEntries bounds the action log like the server's other action
// buffers; older narration is dropped first.
const maxLogEntries = 200

// Mode selects how a match is driven.
type Mode int

const (
	ModeLocalMultiplayer Mode = iota
	ModeSinglePlayer
	ModeTutorial
)

var modeNames = map[Mode]string{
	ModeLocalMultiplayer: "local_multiplayer",
	ModeSinglePlayer:     "single_player",
	ModeTutorial:         "tutorial",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode_%d", int(m))
}

// AIDifficulty selects how much noise the AI injects into its choices.
type AIDifficulty int

const (
	DifficultyEasy AIDifficulty = iota
	DifficultyMedium
	DifficultyHard
)

var difficultyNames = map[AIDifficulty]string{
	DifficultyEasy:   "easy",
	DifficultyMedium: "medium",
	DifficultyHard:   "hard",
}

func (d AIDifficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("difficulty_%d", int(d))
}

// ParseDifficulty converts a difficulty tag; unknown tags fall back to
// medium.
func ParseDifficulty(s string) AIDifficulty {
	for d, name := range difficultyNames {
		if name == s {
			return d
		}
	}
	return DifficultyMedium
}

// PlayerConfig describes one seat at init time.
type PlayerConfig struct {
	Name       string
	IsAI       bool
	Difficulty AIDifficulty
}

// Player is one seat in a match. Team assignment alternates by seat index
// and never changes during a game.
type Player struct {
	ID         string
	Name       string
	Team       board.Team
	IsAI       bool
	Difficulty AIDifficulty
	Hand       []cards.Instance
}

// LogEntry is one line of turn narration.
type LogEntry struct {
	Timestamp time.Time
	Player    string
	Action    string
	Details   string
}

// PlayerStats tracks per-player counters for the match report.
type PlayerStats struct {
	CardsPlayed     int
	AntibioticsUsed int
}

// MatchStats accumulates report inputs over one match.
type MatchStats struct {
	PlayerStats           map[string]PlayerStats
	GlobalEventsTriggered int
	HighestAMRReached     int
	TotalCardsPlayed      int
}

// State is the aggregate root for one match. Exactly one State value is
// authoritative at a time; actions produce successors and the old value is
// discarded, never patched.
type State struct {
	MatchID string
	Mode    Mode
	Phase   rules.Phase

	Zones []board.Zone
	AMR   meter.Meter

	Players            []Player
	CurrentPlayerIndex int

	GoodDeck  []cards.Instance
	BadDeck   []cards.Instance
	EventDeck []cards.GlobalEvent

	CurrentDieRoll int // 0 when no roll is pending
	CurrentEvent   *cards.GlobalEvent
	SelectedCard   *cards.Instance

	TurnNumber int
	StartedAt  time.Time
	Winner     rules.WinCondition

	Message   string
	ActionLog []LogEntry

	Stats MatchStats
}

// Clone returns a deep copy. Actions clone first and mutate the copy so
// the caller's snapshot is never touched.
func (s *State) Clone() *State {
	next := *s

	next.Zones = append([]board.Zone(nil), s.Zones...)
	next.GoodDeck = append([]cards.Instance(nil), s.GoodDeck...)
	next.BadDeck = append([]cards.Instance(nil), s.BadDeck...)
	next.EventDeck = append([]cards.GlobalEvent(nil), s.EventDeck...)
	next.ActionLog = append([]LogEntry(nil), s.ActionLog...)

	next.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		p.Hand = append([]cards.Instance(nil), p.Hand...)
		next.Players[i] = p
	}

	if s.CurrentEvent != nil {
		event := *s.CurrentEvent
		next.CurrentEvent = &event
	}
	if s.SelectedCard != nil {
		card := *s.SelectedCard
		next.SelectedCard = &card
	}

	next.Stats.PlayerStats = make(map[string]PlayerStats, len(s.Stats.PlayerStats))
	for id, ps := range s.Stats.PlayerStats {
		next.Stats.PlayerStats[id] = ps
	}

	return &next
}

// CurrentPlayer returns the acting player, or nil before init.
func (s *State) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// IsSpectator reports whether every seat is AI-controlled.
func (s *State) IsSpectator() bool {
	if len(s.Players) == 0 {
		return false
	}
	for _, p := range s.Players {
		if !p.IsAI {
			return false
		}
	}
	return true
}

func (s *State) appendLog(player, action, details string) {
	s.ActionLog = append(s.ActionLog, LogEntry{
		Timestamp: time.Now(),
		Player:    player,
		Action:    action,
		Details:   details,
	})
	if len(s.ActionLog) > maxLogEntries {
		s.ActionLog = s.ActionLog[len(s.ActionLog)-maxLogEntries:]
	}
}

func teamLabel(t board.Team) string {
	if t == board.TeamGood {
		return "Good Bacteria"
	}
	return "Bad Bacteria"
}
