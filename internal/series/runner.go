// Package series runs headless batches of AI-versus-AI matches and
// aggregates their outcomes, for balance checking and the simulate command.
package series

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/game/ai"
	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

// maxStepsPerMatch bounds a single match so a degenerate stand-off cannot
// hang the batch.
const maxStepsPerMatch = 10000

// MatchResult is the outcome of one simulated match.
type MatchResult struct {
	MatchID         string
	Winner          rules.WinCondition
	WinningTeam     board.Team
	Turns           int
	CardsPlayed     int
	EventsTriggered int
	HighestAMR      int
	Duration        time.Duration
}

// Summary aggregates a batch of simulated matches.
type Summary struct {
	Matches      int
	GoodWins     int
	BadWins      int
	Draws        int
	AverageTurns float64
	LongestTurns int

	WinsByCondition map[rules.WinCondition]int
	Results         []MatchResult
}

// Runner plays AI-only matches back to back with no pacing delay.
type Runner struct {
	settings rules.Settings
	catalog  *cards.Catalog
	goodDiff game.AIDifficulty
	badDiff  game.AIDifficulty
	rand     *random.Source
	logger   *zap.Logger

	mu sync.Mutex
}

// NewRunner creates a batch runner. The pacing delay is forced to zero;
// simulations run as fast as the engine allows.
func NewRunner(settings rules.Settings, catalog *cards.Catalog, goodDiff, badDiff game.AIDifficulty, src *random.Source, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.AIThinkingDelay = 0
	return &Runner{
		settings: settings,
		catalog:  catalog,
		goodDiff: goodDiff,
		badDiff:  badDiff,
		rand:     src,
		logger:   logger,
	}
}

// Run plays count matches, stopping early if ctx is cancelled. Matches run
// sequentially so a single randomness stream keeps the batch reproducible.
func (r *Runner) Run(ctx context.Context, count int) (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if count <= 0 {
		return nil, fmt.Errorf("match count must be positive, got %d", count)
	}

	summary := &Summary{
		WinsByCondition: make(map[rules.WinCondition]int),
	}
	totalTurns := 0

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := r.playMatch(ctx)
		if err != nil {
			return summary, err
		}

		summary.Matches++
		summary.Results = append(summary.Results, result)
		summary.WinsByCondition[result.Winner]++
		totalTurns += result.Turns
		if result.Turns > summary.LongestTurns {
			summary.LongestTurns = result.Turns
		}
		switch result.WinningTeam {
		case board.TeamGood:
			summary.GoodWins++
		case board.TeamBad:
			summary.BadWins++
		default:
			summary.Draws++
		}

		r.logger.Debug("simulated match finished",
			zap.Int("match", i+1),
			zap.String("winner", result.Winner.String()),
			zap.Int("turns", result.Turns),
		)
	}

	if summary.Matches > 0 {
		summary.AverageTurns = float64(totalTurns) / float64(summary.Matches)
	}
	return summary, nil
}

// playMatch drives one match to completion through the engine's public
// actions, exactly as the live session does but without delays.
func (r *Runner) playMatch(ctx context.Context) (MatchResult, error) {
	engine := game.New(r.settings, r.catalog, r.rand, r.logger)
	s := engine.InitGame(game.ModeLocalMultiplayer, []game.PlayerConfig{
		{Name: "Good AI", IsAI: true, Difficulty: r.goodDiff},
		{Name: "Bad AI", IsAI: true, Difficulty: r.badDiff},
	})
	started := time.Now()

	brains := map[board.Team]*ai.Player{
		board.TeamGood: ai.NewPlayer(r.goodDiff, r.rand, r.logger),
		board.TeamBad:  ai.NewPlayer(r.badDiff, r.rand, r.logger),
	}

	for steps := 0; steps < maxStepsPerMatch; steps++ {
		if err := ctx.Err(); err != nil {
			return MatchResult{}, err
		}
		if s.Phase == rules.PhaseGameOver {
			break
		}

		switch s.Phase {
		case rules.PhaseRoll:
			s = engine.RollDie(s)

		case rules.PhaseResolveEvent:
			s = engine.ResolveEvent(s)

		case rules.PhaseAction:
			brain := brains[s.CurrentPlayer().Team]
			decision, ok := brain.Decide(engine, s, s.CurrentPlayerIndex)
			if !ok {
				s = engine.PassTurn(s)
				break
			}
			s = engine.PlayCard(s, decision.ZoneID, &decision.Card)

		case rules.PhaseActionResolved:
			s = engine.NextTurn(s)

		default:
			return MatchResult{}, fmt.Errorf("simulation stuck in phase %s", s.Phase)
		}
	}

	return MatchResult{
		MatchID:         s.MatchID,
		Winner:          s.Winner,
		WinningTeam:     s.Winner.WinningTeam(),
		Turns:           s.TurnNumber,
		CardsPlayed:     s.Stats.TotalCardsPlayed,
		EventsTriggered: s.Stats.GlobalEventsTriggered,
		HighestAMR:      s.Stats.HighestAMRReached,
		Duration:        time.Since(started),
	}, nil
}
