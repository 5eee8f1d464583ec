package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/effects"
	"github.com/gutlands/gutlands-server-go/internal/game/meter"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
	"github.com/gutlands/gutlands-server-go/internal/random"
	"go.uber.org/zap"
)

// Engine holds the per-match-invariant collaborators: rule settings, the
// card catalog, the injected randomness stream, and a logger. It carries no
// match state; State values flow through its actions.
type Engine struct {
	settings rules.Settings
	catalog  *cards.Catalog
	rand     *random.Source
	logger   *zap.Logger
}

// New creates an engine. A nil logger is replaced with a no-op logger.
func New(settings rules.Settings, catalog *cards.Catalog, src *random.Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		settings: settings,
		catalog:  catalog,
		rand:     src,
		logger:   logger,
	}
}

// Settings returns the rule settings the engine was built with.
func (e *Engine) Settings() rules.Settings {
	return e.settings
}

// ResetGame discards any prior match and returns the pre-match state. The
// old State must be dropped by the caller, not reused.
func (e *Engine) ResetGame() *State {
	return &State{
		Mode:    ModeLocalMultiplayer,
		Phase:   rules.PhaseMenu,
		Zones:   board.NewZones(),
		AMR:     meter.New(e.settings.StartingAMR, e.settings.MaxAMR),
		Message: "Welcome to The War of Gutlands!",
		Stats:   MatchStats{PlayerStats: make(map[string]PlayerStats)},
	}
}

// InitGame creates a fresh match: shuffled decks, dealt hands, alternating
// team assignment, two randomly seeded zones, and the first player in the
// roll phase.
func (e *Engine) InitGame(mode Mode, configs []PlayerConfig) *State {
	s := &State{
		MatchID:    uuid.NewString(),
		Mode:       mode,
		Phase:      rules.PhaseRoll,
		Zones:      board.NewZones(),
		AMR:        meter.New(e.settings.StartingAMR, e.settings.MaxAMR),
		TurnNumber: 1,
		StartedAt:  time.Now(),
		Winner:     rules.WinNone,
		Stats:      MatchStats{PlayerStats: make(map[string]PlayerStats)},
	}
	s.Stats.HighestAMRReached = s.AMR.Level

	s.GoodDeck = e.catalog.BuildDeck(e.rand, board.TeamGood, e.settings.DeckCopies)
	s.BadDeck = e.catalog.BuildDeck(e.rand, board.TeamBad, e.settings.DeckCopies)
	if e.settings.EnableGlobalEvents {
		s.EventDeck = e.catalog.BuildEventDeck(e.rand)
	}

	s.Players = make([]Player, len(configs))
	for i, cfg := range configs {
		team := board.TeamGood
		if i%2 == 1 {
			team = board.TeamBad
		}
		name := cfg.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		var hand []cards.Instance
		if team == board.TeamGood {
			hand, s.GoodDeck = cards.Draw(s.GoodDeck, e.settings.HandSize)
		} else {
			hand, s.BadDeck = cards.Draw(s.BadDeck, e.settings.HandSize)
		}
		s.Players[i] = Player{
			ID:         fmt.Sprintf("player-%d", i),
			Name:       name,
			Team:       team,
			IsAI:       cfg.IsAI,
			Difficulty: cfg.Difficulty,
			Hand:       hand,
		}
		s.Stats.PlayerStats[s.Players[i].ID] = PlayerStats{}
	}

	// Seed one zone per side with the initial tokens.
	order := make([]int, board.ZoneCount)
	for i := range order {
		order[i] = i
	}
	order = cards.Shuffle(e.rand, order)
	s.Zones[order[0]].GoodTokens = e.settings.InitialTokensPerTeam
	s.Zones[order[1]].BadTokens = e.settings.InitialTokensPerTeam
	board.UpdateAllControl(s.Zones)

	first := s.Players[0]
	s.Message = fmt.Sprintf("%s's turn (%s). Roll the die!", first.Name, teamLabel(first.Team))
	s.appendLog("System", "Game started", fmt.Sprintf("%d players, %s mode", len(s.Players), mode))

	e.logger.Info("game initialized",
		zap.String("match_id", s.MatchID),
		zap.String("mode", mode.String()),
		zap.Int("players", len(s.Players)),
	)
	return s
}

// RollDie rolls the turn die. Meeting the event threshold with events left
// in the pile moves to event resolution; otherwise straight to the action
// phase. Out-of-phase calls change nothing but the status message.
func (e *Engine) RollDie(s *State) *State {
	next := s.Clone()
	if s.Phase != rules.PhaseRoll {
		next.Message = "You can only roll during the roll phase."
		return next
	}

	roll := e.rand.Roll(e.settings.DieSides)
	next.CurrentDieRoll = roll
	player := next.CurrentPlayer()

	if e.settings.EnableGlobalEvents && roll >= e.settings.GlobalEventThreshold && len(next.EventDeck) > 0 {
		event := next.EventDeck[0]
		next.EventDeck = next.EventDeck[1:]
		next.CurrentEvent = &event
		next.Phase = rules.PhaseResolveEvent
		next.Message = fmt.Sprintf("Rolled %d! GLOBAL EVENT: %s", roll, event.Title)
		next.appendLog(player.Name, "rolled die", fmt.Sprintf("Rolled %d - Global Event triggered!", roll))
	} else {
		next.Phase = rules.PhaseAction
		if roll >= e.settings.GlobalEventThreshold {
			next.Message = fmt.Sprintf("Rolled %d. No more events in deck. Select a card to play.", roll)
		} else {
			next.Message = fmt.Sprintf("Rolled %d. Select a card to play.", roll)
		}
		next.appendLog(player.Name, "rolled die", fmt.Sprintf("Rolled %d", roll))
	}

	e.logger.Debug("die rolled",
		zap.String("match_id", s.MatchID),
		zap.Int("roll", roll),
		zap.String("phase", next.Phase.String()),
	)
	return next
}

// ResolveEvent applies the pending global event's effects, then checks win
// conditions immediately: an event can end the game by itself.
func (e *Engine) ResolveEvent(s *State) *State {
	next := s.Clone()
	if s.Phase != rules.PhaseResolveEvent || next.CurrentEvent == nil {
		next.Message = "There is no event to resolve."
		return next
	}

	event := *next.CurrentEvent
	next.Stats.GlobalEventsTriggered++

	e.applyEffects(next, event.Effects, 0)

	next.appendLog("Global Event", event.Title, event.Description)
	next.CurrentEvent = nil
	next.Phase = rules.PhaseAction
	next.Message = "Event resolved. Select a card to play."

	e.logger.Debug("event resolved",
		zap.String("match_id", s.MatchID),
		zap.String("event_id", event.ID),
		zap.Int("amr_level", next.AMR.Level),
	)

	e.concludeIfWon(next)
	return next
}

// SelectCard toggles the pending card selection; pure UI state with no
// board effect. Passing nil deselects.
func (e *Engine) SelectCard(s *State, inst *cards.Instance) *State {
	next := s.Clone()
	if s.Phase != rules.PhaseAction {
		next.Message = "Cards can only be selected during the action phase."
		return next
	}

	if inst == nil {
		next.SelectedCard = nil
		next.Message = "Card deselected. Select a card to play."
		return next
	}
	card := *inst
	next.SelectedCard = &card
	next.Message = fmt.Sprintf("Selected: %s. Click a zone to play it.", card.Name)
	return next
}

// PlayCard plays the given instance (or the pending selection) against a
// zone. Validation and mutation happen in one pass: a play that fails any
// legality check returns with only the status message changed.
func (e *Engine) PlayCard(s *State, zoneID int, inst *cards.Instance) *State {
	next := s.Clone()
	if s.Phase != rules.PhaseAction {
		next.Message = "Cards can only be played during the action phase."
		return next
	}

	card := inst
	if card == nil {
		card = next.SelectedCard
	}
	if card == nil || zoneID < 0 || zoneID >= len(next.Zones) {
		next.Message = "Select a card and a zone first."
		return next
	}

	zone := &next.Zones[zoneID]
	if reason, ok := playableReason(card.Card, zone, e.settings.ZoneCapacity); !ok {
		next.Message = reason
		return next
	}

	player := next.CurrentPlayer()

	stats := next.Stats.PlayerStats[player.ID]
	stats.CardsPlayed++
	if card.IsAntibiotic() {
		stats.AntibioticsUsed++
	}
	next.Stats.PlayerStats[player.ID] = stats
	next.Stats.TotalCardsPlayed++

	effectMessages := e.applyEffects(next, card.Effects, zoneID)

	if card.AMRCost > 0 {
		next.AMR.Raise(card.AMRCost)
		if next.AMR.Level > next.Stats.HighestAMRReached {
			next.Stats.HighestAMRReached = next.AMR.Level
		}
	}

	removeFromHand(player, card.InstanceID)
	e.drawReplacement(next, player)

	next.appendLog(player.Name, fmt.Sprintf("played %s", card.Name), fmt.Sprintf("on %s", zone.Name))
	next.SelectedCard = nil

	e.logger.Debug("card played",
		zap.String("match_id", s.MatchID),
		zap.String("card_id", card.ID),
		zap.Int("zone_id", zoneID),
		zap.String("player_id", player.ID),
	)

	if !e.concludeIfWon(next) {
		next.Phase = rules.PhaseActionResolved
		if len(effectMessages) > 0 {
			next.Message = effectMessages[len(effectMessages)-1]
		} else {
			next.Message = fmt.Sprintf("%s played %s on %s.", player.Name, card.Name, zone.Name)
		}
	}
	return next
}

// PassTurn forfeits the action phase without playing a card, used when a
// player has no legal play. It moves straight to the post-play pause.
func (e *Engine) PassTurn(s *State) *State {
	next := s.Clone()
	if s.Phase != rules.PhaseAction {
		next.Message = "You can only pass during the action phase."
		return next
	}

	player := next.CurrentPlayer()
	next.SelectedCard = nil
	next.Phase = rules.PhaseActionResolved
	next.Message = fmt.Sprintf("%s passed the turn.", player.Name)
	next.appendLog(player.Name, "passed", "no card played")
	return next
}

// NextTurn is the caller-driven continue transition out of the post-play
// pause: it hands the turn to the next player and returns to the roll
// phase. The round counter advances when the seat index wraps to zero.
func (e *Engine) NextTurn(s *State) *State {
	next := s.Clone()
	if s.Phase != rules.PhaseActionResolved {
		next.Message = "The turn cannot be advanced right now."
		return next
	}

	next.CurrentPlayerIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
	if next.CurrentPlayerIndex == 0 {
		next.TurnNumber++
	}
	next.CurrentDieRoll = 0
	next.SelectedCard = nil

	// The round counter just moved; the turn limit is the only condition
	// that can newly qualify here.
	if e.concludeIfWon(next) {
		return next
	}

	next.Phase = rules.PhaseRoll
	player := next.CurrentPlayer()
	next.Message = fmt.Sprintf("%s's turn (%s). Roll the die!", player.Name, teamLabel(player.Team))
	return next
}

// CanPlayCard reports whether the card is a legal play against the zone in
// the current state. A true result is stable for PlayCard with the same
// arguments on an unchanged state.
func (e *Engine) CanPlayCard(s *State, card cards.Card, zoneID int) bool {
	if zoneID < 0 || zoneID >= len(s.Zones) {
		return false
	}
	_, ok := playableReason(card, &s.Zones[zoneID], e.settings.ZoneCapacity)
	return ok
}

// CheckWinConditions evaluates the terminal outcome for the current state
// without mutating anything.
func (e *Engine) CheckWinConditions(s *State) rules.WinCondition {
	return rules.EvaluateWin(s.Zones, s.AMR.Level, s.TurnNumber, e.settings)
}

// ZoneControl derives the controlling team of a zone.
func (e *Engine) ZoneControl(z board.Zone) board.Team {
	z.UpdateControl()
	return z.ControlledBy
}

// applyEffects runs the resolver against the cloned state and returns any
// status messages produced by non-mutating effects.
func (e *Engine) applyEffects(next *State, effs []effects.Effect, originZone int) []string {
	ctx := &effects.Context{
		Zones:    next.Zones,
		AMR:      &next.AMR,
		Capacity: e.settings.ZoneCapacity,
		Rand:     e.rand,
		UpcomingEvents: func(n int) []string {
			if n > len(next.EventDeck) {
				n = len(next.EventDeck)
			}
			titles := make([]string, 0, n)
			for _, ev := range next.EventDeck[:n] {
				titles = append(titles, ev.Title)
			}
			return titles
		},
	}
	messages := effects.Apply(ctx, effs, originZone)
	if next.AMR.Level > next.Stats.HighestAMRReached {
		next.Stats.HighestAMRReached = next.AMR.Level
	}
	return messages
}

// concludeIfWon moves the state to game over when a win condition holds.
func (e *Engine) concludeIfWon(next *State) bool {
	winner := rules.EvaluateWin(next.Zones, next.AMR.Level, next.TurnNumber, e.settings)
	if winner == rules.WinNone {
		return false
	}
	next.Winner = winner
	next.Phase = rules.PhaseGameOver
	next.Message = winner.Message()
	e.logger.Info("game over",
		zap.String("match_id", next.MatchID),
		zap.String("winner", winner.String()),
		zap.Int("turns", next.TurnNumber),
	)
	return true
}

// playableReason checks play legality: full zones reject everything but
// antibiotics, and every effect's zone-target precondition must hold.
func playableReason(card cards.Card, z *board.Zone, capacity int) (string, bool) {
	if z.IsFull(capacity) && !card.IsAntibiotic() {
		return "Zone is full! Only antibiotics can affect full zones.", false
	}
	for _, eff := range card.Effects {
		switch eff.Target {
		case effects.TargetHasGood:
			if z.GoodTokens == 0 {
				return "This card requires a zone with good bacteria.", false
			}
		case effects.TargetHasBad:
			if z.BadTokens == 0 {
				return "This card requires a zone with bad bacteria.", false
			}
		case effects.TargetEmpty:
			if z.TotalTokens() > 0 {
				return "This card requires an empty zone.", false
			}
		}
	}
	return "", true
}

func removeFromHand(p *Player, instanceID string) {
	for i, inst := range p.Hand {
		if inst.InstanceID == instanceID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// drawReplacement draws one card from the player's team deck if any
// remain; an empty deck simply leaves the hand short.
func (e *Engine) drawReplacement(next *State, p *Player) {
	if p.Team == board.TeamGood {
		var drawn []cards.Instance
		drawn, next.GoodDeck = cards.Draw(next.GoodDeck, 1)
		p.Hand = append(p.Hand, drawn...)
	} else {
		var drawn []cards.Instance
		drawn, next.BadDeck = cards.Draw(next.BadDeck, 1)
		p.Hand = append(p.Hand, drawn...)
	}
}
