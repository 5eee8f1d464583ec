// Package rules holds the match-level rule vocabulary: turn phases, rule
// settings, and the win-condition evaluator.
package rules

import "fmt"

// Phase is the stage of the current player's turn cycle, or a match-level
// placeholder/terminal phase. ACTION_RESOLVED is the explicit pause between
// a successful play and the next player's roll; advancing out of it is a
// caller-driven transition, not a timer.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseSetup
	PhaseRoll
	PhaseResolveEvent
	PhaseAction
	PhaseActionResolved
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseMenu:           "MENU",
	PhaseSetup:          "SETUP",
	PhaseRoll:           "ROLL",
	PhaseResolveEvent:   "RESOLVE_EVENT",
	PhaseAction:         "ACTION",
	PhaseActionResolved: "ACTION_RESOLVED",
	PhaseGameOver:       "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Terminal reports whether the phase accepts no further actions short of a
// full reset.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver
}
