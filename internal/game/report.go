package game

import (
	"math"
	"time"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
)

// PlayerReport summarizes one seat in a finished match.
type PlayerReport struct {
	Name            string  `json:"name"`
	Team            string  `json:"team"`
	IsAI            bool    `json:"isAI"`
	Difficulty      *string `json:"difficulty,omitempty"`
	CardsPlayed     int     `json:"cardsPlayed"`
	AntibioticsUsed int     `json:"antibioticsUsed"`
}

// ZoneControlSummary counts zones by controlling team at match end.
type ZoneControlSummary struct {
	Good    int `json:"good"`
	Bad     int `json:"bad"`
	Neutral int `json:"neutral"`
}

// MatchReport is the end-of-match summary produced once a game reaches the
// game-over phase.
type MatchReport struct {
	MatchID   string        `json:"matchId"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`

	Players []PlayerReport `json:"players"`

	Winner      string `json:"winner"`
	WinningTeam string `json:"winningTeam,omitempty"`

	TotalTurns       int                `json:"totalTurns"`
	FinalZoneControl ZoneControlSummary `json:"finalZoneControl"`
	FinalAMRLevel    int                `json:"finalAMRLevel"`
	FinalGoodTokens  int                `json:"finalGoodTokens"`
	FinalBadTokens   int                `json:"finalBadTokens"`

	GlobalEventsTriggered int     `json:"globalEventsTriggered"`
	HighestAMRReached     int     `json:"highestAMRReached"`
	AverageCardsPerTurn   float64 `json:"averageCardsPerTurn"`

	Mode            string `json:"mode"`
	IsSpectatorMode bool   `json:"isSpectatorMode"`
}

// GenerateMatchReport builds the summary for a finished match. It returns
// nil while the game is still in progress.
func GenerateMatchReport(s *State) *MatchReport {
	if s == nil || s.Phase != rules.PhaseGameOver || s.Winner == rules.WinNone {
		return nil
	}

	tally := board.CountTally(s.Zones)

	players := make([]PlayerReport, len(s.Players))
	for i, p := range s.Players {
		stats := s.Stats.PlayerStats[p.ID]
		pr := PlayerReport{
			Name:            p.Name,
			Team:            teamLabel(p.Team),
			IsAI:            p.IsAI,
			CardsPlayed:     stats.CardsPlayed,
			AntibioticsUsed: stats.AntibioticsUsed,
		}
		if p.IsAI {
			diff := p.Difficulty.String()
			pr.Difficulty = &diff
		}
		players[i] = pr
	}

	report := &MatchReport{
		MatchID:   s.MatchID,
		Timestamp: time.Now(),
		Duration:  time.Since(s.StartedAt),
		Players:   players,

		Winner: s.Winner.String(),

		TotalTurns: s.TurnNumber,
		FinalZoneControl: ZoneControlSummary{
			Good:    tally.GoodZones,
			Bad:     tally.BadZones,
			Neutral: tally.NeutralZones,
		},
		FinalAMRLevel:   s.AMR.Level,
		FinalGoodTokens: tally.GoodTokens,
		FinalBadTokens:  tally.BadTokens,

		GlobalEventsTriggered: s.Stats.GlobalEventsTriggered,
		HighestAMRReached:     s.Stats.HighestAMRReached,
		AverageCardsPerTurn:   averageCardsPerTurn(s.Stats.TotalCardsPlayed, s.TurnNumber),

		Mode:            s.Mode.String(),
		IsSpectatorMode: s.IsSpectator(),
	}

	if team := s.Winner.WinningTeam(); team != board.TeamNone {
		report.WinningTeam = teamLabel(team)
	}

	return report
}

// averageCardsPerTurn rounds to one decimal place for display.
func averageCardsPerTurn(cardsPlayed, turns int) float64 {
	if turns <= 0 {
		return 0
	}
	return math.Round(float64(cardsPlayed)/float64(turns)*10) / 10
}
