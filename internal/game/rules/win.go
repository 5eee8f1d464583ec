package rules

import (
	"fmt"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
)

// WinCondition is the terminal outcome of a match.
type WinCondition int

const (
	WinNone WinCondition = iota
	WinBadAMRVictory
	WinGoodZoneControl
	WinBadZoneControl
	WinGoodElimination
	WinBadElimination
	WinDrawTurnLimit
)

var winNames = map[WinCondition]string{
	WinNone:            "none",
	WinBadAMRVictory:   "bad_amr_victory",
	WinGoodZoneControl: "good_zone_control",
	WinBadZoneControl:  "bad_zone_control",
	WinGoodElimination: "good_elimination",
	WinBadElimination:  "bad_elimination",
	WinDrawTurnLimit:   "draw_turn_limit",
}

func (w WinCondition) String() string {
	if name, ok := winNames[w]; ok {
		return name
	}
	return fmt.Sprintf("win_%d", int(w))
}

// WinningTeam returns the side the outcome favors; TeamNone for no result
// or a draw.
func (w WinCondition) WinningTeam() board.Team {
	switch w {
	case WinGoodZoneControl, WinGoodElimination:
		return board.TeamGood
	case WinBadZoneControl, WinBadElimination, WinBadAMRVictory:
		return board.TeamBad
	default:
		return board.TeamNone
	}
}

// Message returns the narration for a terminal outcome.
func (w WinCondition) Message() string {
	switch w {
	case WinGoodZoneControl:
		return "Good Bacteria win! Successfully colonized the gut with healthy flora!"
	case WinGoodElimination:
		return "Good Bacteria win! All harmful bacteria have been eliminated!"
	case WinBadZoneControl:
		return "Bad Bacteria win! They have taken over the digestive system!"
	case WinBadElimination:
		return "Bad Bacteria win! All good bacteria have been eliminated!"
	case WinBadAMRVictory:
		return "Bad Bacteria win! Antibiotic resistance reached critical levels!"
	case WinDrawTurnLimit:
		return "Stalemate! The turn limit was reached with no decisive winner."
	default:
		return ""
	}
}

// EvaluateWin is the pure win-condition check, run after every event
// resolution and every card play. Checks are ordered; the first match wins:
// AMR ceiling, good zone control, bad zone control, elimination (skipping
// the initial setup round), then the optional turn-limit draw.
func EvaluateWin(zones []board.Zone, amrLevel, turnNumber int, s Settings) WinCondition {
	if s.EnableAMRVictory && amrLevel >= s.MaxAMR {
		return WinBadAMRVictory
	}

	tally := board.CountTally(zones)

	if tally.GoodZones >= s.ZoneControlCount {
		return WinGoodZoneControl
	}
	if tally.BadZones >= s.ZoneControlCount {
		return WinBadZoneControl
	}

	if s.EnableEliminationVictory && turnNumber > 1 {
		if tally.BadTokens == 0 && tally.GoodTokens > 0 {
			return WinGoodElimination
		}
		if tally.GoodTokens == 0 && tally.BadTokens > 0 {
			return WinBadElimination
		}
	}

	if s.TurnLimit > 0 && turnNumber > s.TurnLimit {
		return WinDrawTurnLimit
	}

	return WinNone
}
