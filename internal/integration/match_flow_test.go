package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/game/ai"
	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

func newEngine(t *testing.T, settings rules.Settings, seed int64) *game.Engine {
	t.Helper()
	catalog, err := cards.Load()
	require.NoError(t, err)
	return game.New(settings, catalog, random.NewSource(seed), nil)
}

// playFullMatch drives one AI-versus-AI match to completion through the
// public engine actions, checking the board invariants after every step.
func playFullMatch(t *testing.T, settings rules.Settings, seed int64) *game.State {
	t.Helper()
	engine := newEngine(t, settings, seed)
	s := engine.InitGame(game.ModeLocalMultiplayer, []game.PlayerConfig{
		{Name: "Good AI", IsAI: true, Difficulty: game.DifficultyHard},
		{Name: "Bad AI", IsAI: true, Difficulty: game.DifficultyMedium},
	})

	brains := map[board.Team]*ai.Player{
		board.TeamGood: ai.NewPlayer(game.DifficultyHard, random.NewSource(seed+1), nil),
		board.TeamBad:  ai.NewPlayer(game.DifficultyMedium, random.NewSource(seed+2), nil),
	}

	for steps := 0; steps < 5000; steps++ {
		assertInvariants(t, s, settings)
		if s.Phase == rules.PhaseGameOver {
			return s
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
				continue
			}
			s = engine.PlayCard(s, decision.ZoneID, &decision.Card)
		case rules.PhaseActionResolved:
			s = engine.NextTurn(s)
		default:
			t.Fatalf("match stuck in phase %s", s.Phase)
		}
	}
	t.Fatal("match did not terminate")
	return nil
}

func assertInvariants(t *testing.T, s *game.State, settings rules.Settings) {
	t.Helper()

	require.GreaterOrEqual(t, s.AMR.Level, 0)
	require.LessOrEqual(t, s.AMR.Level, settings.MaxAMR)

	for _, z := range s.Zones {
		require.GreaterOrEqual(t, z.GoodTokens, 0, "zone %s", z.Name)
		require.GreaterOrEqual(t, z.BadTokens, 0, "zone %s", z.Name)
		require.LessOrEqual(t, z.TotalTokens(), settings.ZoneCapacity, "zone %s over capacity", z.Name)

		switch {
		case z.GoodTokens > z.BadTokens:
			require.Equal(t, board.TeamGood, z.ControlledBy, "zone %s control drifted", z.Name)
		case z.BadTokens > z.GoodTokens:
			require.Equal(t, board.TeamBad, z.ControlledBy, "zone %s control drifted", z.Name)
		default:
			require.Equal(t, board.TeamNone, z.ControlledBy, "zone %s control drifted", z.Name)
		}
	}

	for _, p := range s.Players {
		require.LessOrEqual(t, len(p.Hand), settings.HandSize+1)
	}
}

func TestFullMatchTerminates(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.TurnLimit = 50

	final := playFullMatch(t, settings, 1001)

	require.Equal(t, rules.PhaseGameOver, final.Phase)
	require.NotEqual(t, rules.WinNone, final.Winner)
	require.NotEmpty(t, final.Message)

	report := game.GenerateMatchReport(final)
	require.NotNil(t, report)
	require.Equal(t, final.TurnNumber, report.TotalTurns)
	require.True(t, report.IsSpectatorMode)
}

func TestMatchesAcrossSeedsStayConsistent(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.TurnLimit = 40

	for _, seed := range []int64{7, 99, 424242} {
		final := playFullMatch(t, settings, seed)
		require.Equal(t, rules.PhaseGameOver, final.Phase, "seed %d", seed)
	}
}

func TestIdenticalSeedsProduceIdenticalMatches(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.TurnLimit = 40

	a := playFullMatch(t, settings, 555)
	b := playFullMatch(t, settings, 555)

	require.Equal(t, a.Winner, b.Winner)
	require.Equal(t, a.TurnNumber, b.TurnNumber)
	require.Equal(t, a.Zones, b.Zones)
	require.Equal(t, a.AMR.Level, b.AMR.Level)
	require.Equal(t, a.Stats.TotalCardsPlayed, b.Stats.TotalCardsPlayed)
}

func TestDisabledEventsNeverTrigger(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.EnableGlobalEvents = false
	settings.TurnLimit = 30

	final := playFullMatch(t, settings, 31)
	require.Zero(t, final.Stats.GlobalEventsTriggered)
	require.Empty(t, final.EventDeck)
}

func TestMatchReplayRoundTrip(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.TurnLimit = 30

	engine := newEngine(t, settings, 77)
	s := engine.InitGame(game.ModeLocalMultiplayer, []game.PlayerConfig{
		{Name: "Good AI", IsAI: true, Difficulty: game.DifficultyEasy},
		{Name: "Bad AI", IsAI: true, Difficulty: game.DifficultyEasy},
	})

	recorder := game.NewReplayRecorder(nil, t.TempDir())
	recorder.StartRecording(s.MatchID)
	recorder.RecordState(s.MatchID, s)

	brain := ai.NewPlayer(game.DifficultyEasy, random.NewSource(78), nil)
	for steps := 0; steps < 200 && s.Phase != rules.PhaseGameOver; steps++ {
		switch s.Phase {
		case rules.PhaseRoll:
			s = engine.RollDie(s)
		case rules.PhaseResolveEvent:
			s = engine.ResolveEvent(s)
		case rules.PhaseAction:
			decision, ok := brain.Decide(engine, s, s.CurrentPlayerIndex)
			if !ok {
				s = engine.PassTurn(s)
				continue
			}
			s = engine.PlayCard(s, decision.ZoneID, &decision.Card)
		case rules.PhaseActionResolved:
			s = engine.NextTurn(s)
		}
		recorder.RecordState(s.MatchID, s)
	}

	replay, ok := recorder.GetReplay(s.MatchID)
	require.True(t, ok)
	recorded := replay.Size()
	require.Greater(t, recorded, 1)

	matchID := s.MatchID
	require.NoError(t, recorder.SaveReplay(matchID))

	loaded, err := recorder.LoadReplay(matchID)
	require.NoError(t, err)
	require.Equal(t, recorded, loaded.Size())

	// Playback walks the match forward from the initial snapshot.
	loaded.Start()
	first := loaded.Next()
	require.NotNil(t, first)
	require.Equal(t, 1, first.TurnNumber)
	require.Equal(t, matchID, first.MatchID)
}
