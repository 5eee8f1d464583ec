package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

func newTestEngine(t *testing.T, settings rules.Settings) *Engine {
	t.Helper()
	catalog, err := cards.Load()
	require.NoError(t, err)
	return New(settings, catalog, random.NewSource(42), nil)
}

func twoPlayers() []PlayerConfig {
	return []PlayerConfig{
		{Name: "Alice"},
		{Name: "Bob"},
	}
}

func instanceOf(t *testing.T, e *Engine, cardID string) *cards.Instance {
	t.Helper()
	card, ok := e.catalog.CardByID(cardID)
	require.True(t, ok, "card %s missing from catalog", cardID)
	return &cards.Instance{Card: card, InstanceID: "test-" + cardID}
}

func TestInitGameSetsUpMatch(t *testing.T) {
	settings := rules.DefaultSettings()
	e := newTestEngine(t, settings)

	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())

	require.Equal(t, rules.PhaseRoll, s.Phase)
	require.Equal(t, 1, s.TurnNumber)
	require.NotEmpty(t, s.MatchID)
	require.Equal(t, settings.StartingAMR, s.AMR.Level)

	require.Len(t, s.Players, 2)
	require.Equal(t, board.TeamGood, s.Players[0].Team)
	require.Equal(t, board.TeamBad, s.Players[1].Team)
	for _, p := range s.Players {
		require.Len(t, p.Hand, settings.HandSize)
		for _, inst := range p.Hand {
			require.Equal(t, p.Team, inst.Deck.Team())
		}
	}

	goodDefs := len(e.catalog.ByTeam(board.TeamGood))
	require.Len(t, s.GoodDeck, goodDefs*settings.DeckCopies-settings.HandSize)
	require.NotEmpty(t, s.EventDeck)

	// Exactly one zone seeded per side.
	tally := board.CountTally(s.Zones)
	require.Equal(t, settings.InitialTokensPerTeam, tally.GoodTokens)
	require.Equal(t, settings.InitialTokensPerTeam, tally.BadTokens)
	require.Equal(t, 1, tally.GoodZones)
	require.Equal(t, 1, tally.BadZones)
}

func TestRollDieTriggersEventAtThreshold(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.DieSides = 1
	settings.GlobalEventThreshold = 1
	e := newTestEngine(t, settings)

	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	eventsBefore := len(s.EventDeck)

	next := e.RollDie(s)

	require.Equal(t, rules.PhaseResolveEvent, next.Phase)
	require.NotNil(t, next.CurrentEvent)
	require.Len(t, next.EventDeck, eventsBefore-1)
	require.Equal(t, 1, next.CurrentDieRoll)

	// The input snapshot is untouched.
	require.Equal(t, rules.PhaseRoll, s.Phase)
	require.Len(t, s.EventDeck, eventsBefore)
}

func TestRollDieBelowThreshold(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.GlobalEventThreshold = settings.DieSides + 1
	e := newTestEngine(t, settings)

	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	next := e.RollDie(s)

	require.Equal(t, rules.PhaseAction, next.Phase)
	require.Nil(t, next.CurrentEvent)
}

func TestRollDieWithEmptyEventPile(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.DieSides = 1
	settings.GlobalEventThreshold = 1
	e := newTestEngine(t, settings)

	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.EventDeck = nil

	next := e.RollDie(s)
	require.Equal(t, rules.PhaseAction, next.Phase)
	require.Contains(t, next.Message, "No more events in deck.")
}

func TestRollDieOutOfPhase(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction

	next := e.RollDie(s)
	require.Equal(t, rules.PhaseAction, next.Phase)
	require.Zero(t, next.CurrentDieRoll)
	require.Equal(t, "You can only roll during the roll phase.", next.Message)
}

func TestResolveEventAppliesEffects(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())

	event, ok := e.catalog.EventByID("ge_pandemic_scare")
	require.True(t, ok)
	s.Phase = rules.PhaseResolveEvent
	s.CurrentEvent = &event

	before := s.AMR.Level
	next := e.ResolveEvent(s)

	require.Equal(t, before+2, next.AMR.Level)
	require.Equal(t, 1, next.Stats.GlobalEventsTriggered)
	require.Nil(t, next.CurrentEvent)
	require.Equal(t, rules.PhaseAction, next.Phase)
}

func TestResolveEventWithoutPendingEvent(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseResolveEvent

	next := e.ResolveEvent(s)
	require.Equal(t, "There is no event to resolve.", next.Message)
	require.Zero(t, next.Stats.GlobalEventsTriggered)
}

func TestSelectCardToggles(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction

	inst := s.Players[0].Hand[0]
	selected := e.SelectCard(s, &inst)
	require.NotNil(t, selected.SelectedCard)
	require.Equal(t, inst.InstanceID, selected.SelectedCard.InstanceID)

	deselected := e.SelectCard(selected, nil)
	require.Nil(t, deselected.SelectedCard)
}

func TestPlayCardFailureLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction

	// Removal needs a zone holding bad tokens; zone 0 is cleared first.
	s.Zones[0].GoodTokens = 0
	s.Zones[0].BadTokens = 0
	board.UpdateAllControl(s.Zones)
	inst := instanceOf(t, e, "g_hand_washing")

	next := e.PlayCard(s, 0, inst)

	require.Equal(t, rules.PhaseAction, next.Phase)
	require.Equal(t, "This card requires a zone with bad bacteria.", next.Message)
	require.Equal(t, s.Zones, next.Zones)
	require.Equal(t, s.AMR.Level, next.AMR.Level)
	require.Zero(t, next.Stats.TotalCardsPlayed)
}

func TestPlayCardAppliesEffectAndPauses(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction

	inst := &s.Players[0].Hand[0]
	// Swap in a known card so the outcome is fixed.
	card, ok := e.catalog.CardByID("g_probiotic_yogurt")
	require.True(t, ok)
	inst.Card = card

	s.Zones[2].GoodTokens = 0
	s.Zones[2].BadTokens = 0
	handBefore := len(s.Players[0].Hand)

	next := e.PlayCard(s, 2, inst)

	require.Equal(t, rules.PhaseActionResolved, next.Phase)
	require.Equal(t, 2, next.Zones[2].GoodTokens)
	require.Equal(t, board.TeamGood, next.Zones[2].ControlledBy)
	require.Equal(t, 1, next.Stats.TotalCardsPlayed)
	require.Equal(t, 1, next.Stats.PlayerStats["player-0"].CardsPlayed)

	// One card left the hand and a replacement was drawn.
	require.Len(t, next.Players[0].Hand, handBefore)
	for _, h := range next.Players[0].Hand {
		require.NotEqual(t, inst.InstanceID, h.InstanceID)
	}
}

func TestPlayCardCapacityClamp(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction

	s.Zones[3].GoodTokens = 3
	s.Zones[3].BadTokens = 1
	inst := &s.Players[0].Hand[0]
	card, ok := e.catalog.CardByID("g_probiotic_yogurt")
	require.True(t, ok)
	inst.Card = card

	next := e.PlayCard(s, 3, inst)
	require.Equal(t, 4, next.Zones[3].GoodTokens)
	require.Equal(t, 1, next.Zones[3].BadTokens)
}

func TestPlayCardFullZoneRejectsNonAntibiotic(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction

	s.Zones[1].GoodTokens = 2
	s.Zones[1].BadTokens = 3
	inst := instanceOf(t, e, "g_probiotic_yogurt")

	next := e.PlayCard(s, 1, inst)
	require.Equal(t, "Zone is full! Only antibiotics can affect full zones.", next.Message)

	// Antibiotics still land on full zones.
	antibiotic := instanceOf(t, e, "g_narrow_antibiotic")
	s.Players[0].Hand = append(s.Players[0].Hand, *antibiotic)
	require.True(t, e.CanPlayCard(s, antibiotic.Card, 1))
}

func TestPlayCardAMRCostCanEndGame(t *testing.T) {
	settings := rules.DefaultSettings()
	e := newTestEngine(t, settings)
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction
	s.AMR.Level = settings.MaxAMR - 1

	s.Zones[0].BadTokens = 1
	inst := instanceOf(t, e, "g_narrow_antibiotic")
	s.Players[0].Hand = append(s.Players[0].Hand, *inst)

	next := e.PlayCard(s, 0, inst)

	require.Equal(t, rules.PhaseGameOver, next.Phase)
	require.Equal(t, rules.WinBadAMRVictory, next.Winner)
	require.Equal(t, settings.MaxAMR, next.AMR.Level)
	require.Equal(t, settings.MaxAMR, next.Stats.HighestAMRReached)
	require.Equal(t, 1, next.Stats.PlayerStats["player-0"].AntibioticsUsed)
}

func TestCanPlayCardMatchesPlayCard(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction

	player := s.CurrentPlayer()
	for _, inst := range player.Hand {
		for zoneID := range s.Zones {
			if !e.CanPlayCard(s, inst.Card, zoneID) {
				continue
			}
			inst := inst
			next := e.PlayCard(s, zoneID, &inst)
			require.NotEqual(t, rules.PhaseAction, next.Phase,
				"legal play of %s on zone %d was rejected: %s", inst.Card.ID, zoneID, next.Message)
		}
	}
}

func TestPlayCardWithEmptyDeckShrinksHand(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseAction
	s.GoodDeck = nil

	inst := &s.Players[0].Hand[0]
	card, ok := e.catalog.CardByID("g_probiotic_yogurt")
	require.True(t, ok)
	inst.Card = card
	s.Zones[2].GoodTokens = 0
	s.Zones[2].BadTokens = 0
	handBefore := len(s.Players[0].Hand)

	next := e.PlayCard(s, 2, inst)
	require.Len(t, next.Players[0].Hand, handBefore-1)
}

func TestNextTurnAdvancesAndWraps(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseActionResolved

	second := e.NextTurn(s)
	require.Equal(t, 1, second.CurrentPlayerIndex)
	require.Equal(t, 1, second.TurnNumber)
	require.Equal(t, rules.PhaseRoll, second.Phase)
	require.Zero(t, second.CurrentDieRoll)

	second.Phase = rules.PhaseActionResolved
	third := e.NextTurn(second)
	require.Equal(t, 0, third.CurrentPlayerIndex)
	require.Equal(t, 2, third.TurnNumber)
}

func TestNextTurnOutOfPhase(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())

	next := e.NextTurn(s)
	require.Equal(t, rules.PhaseRoll, next.Phase)
	require.Equal(t, 0, next.CurrentPlayerIndex)
	require.Equal(t, "The turn cannot be advanced right now.", next.Message)
}

func TestNextTurnHonorsTurnLimit(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.TurnLimit = 1
	e := newTestEngine(t, settings)

	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	s.Phase = rules.PhaseActionResolved
	s.CurrentPlayerIndex = 1

	next := e.NextTurn(s)
	require.Equal(t, rules.PhaseGameOver, next.Phase)
	require.Equal(t, rules.WinDrawTurnLimit, next.Winner)
}

func TestResetGameReturnsMenuState(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.ResetGame()

	require.Equal(t, rules.PhaseMenu, s.Phase)
	require.Empty(t, s.Players)
	require.Equal(t, "Welcome to The War of Gutlands!", s.Message)

	// A new match starts cleanly from the menu state.
	started := e.InitGame(ModeSinglePlayer, twoPlayers())
	require.Equal(t, rules.PhaseRoll, started.Phase)
}

func TestCloneIsDeep(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())
	s := e.InitGame(ModeLocalMultiplayer, twoPlayers())

	clone := s.Clone()
	clone.Zones[0].GoodTokens = 99
	clone.Players[0].Hand[0].InstanceID = "mutated"
	clone.Stats.PlayerStats["player-0"] = PlayerStats{CardsPlayed: 42}

	require.NotEqual(t, 99, s.Zones[0].GoodTokens)
	require.NotEqual(t, "mutated", s.Players[0].Hand[0].InstanceID)
	require.Zero(t, s.Stats.PlayerStats["player-0"].CardsPlayed)
}

func TestIsSpectator(t *testing.T) {
	e := newTestEngine(t, rules.DefaultSettings())

	human := e.InitGame(ModeLocalMultiplayer, twoPlayers())
	require.False(t, human.IsSpectator())

	aiOnly := e.InitGame(ModeLocalMultiplayer, []PlayerConfig{
		{Name: "Bot A", IsAI: true, Difficulty: DifficultyHard},
		{Name: "Bot B", IsAI: true, Difficulty: DifficultyEasy},
	})
	require.True(t, aiOnly.IsSpectator())
}
