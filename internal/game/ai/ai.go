// Package ai implements the heuristic computer opponent. It scores every
// legal card and zone pairing against a board analysis, then picks among
// the top candidates with difficulty-dependent noise.
package ai

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/effects"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

// gamePhase buckets the match timeline; scoring weights shift as the game
// progresses.
type gamePhase int

const (
	phaseEarly gamePhase = iota
	phaseMid
	phaseLate
	phaseCritical
)

var phaseNames = map[gamePhase]string{
	phaseEarly:    "early",
	phaseMid:      "mid",
	phaseLate:     "late",
	phaseCritical: "critical",
}

func (g gamePhase) String() string {
	return phaseNames[g]
}

// zoneAnalysis caches the per-zone features the scorer reads.
type zoneAnalysis struct {
	zone          board.Zone
	space         int
	flipPotential float64
	friendly      bool
	enemy         bool
	neutral       bool
}

// boardAnalysis is the one-pass summary of the state an AI turn starts
// from.
type boardAnalysis struct {
	zones          []zoneAnalysis
	myZones        int
	enemyZones     int
	myTokens       int
	enemyTokens    int
	amrThreat      float64
	myProximity    float64
	enemyProximity float64
	phase          gamePhase
}

// Decision is one scored play with a human-readable explanation.
type Decision struct {
	Card      cards.Instance
	ZoneID    int
	Score     float64
	Reasoning string
}

// Player drives one AI seat.
type Player struct {
	difficulty game.AIDifficulty
	rand       *random.Source
	logger     *zap.Logger
}

// NewPlayer creates an AI player with its own randomness stream for choice
// noise. A nil logger is replaced with a no-op logger.
func NewPlayer(difficulty game.AIDifficulty, src *random.Source, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		difficulty: difficulty,
		rand:       src,
		logger:     logger,
	}
}

// Difficulty returns the noise level the player was built with.
func (p *Player) Difficulty() game.AIDifficulty {
	return p.difficulty
}

// Decide picks a card and zone for the player at seatIndex. It returns
// false when the seat has no legal play.
func (p *Player) Decide(e *game.Engine, s *game.State, seatIndex int) (Decision, bool) {
	if seatIndex < 0 || seatIndex >= len(s.Players) {
		return Decision{}, false
	}
	seat := s.Players[seatIndex]

	analysis := analyzeBoard(e, s, seat.Team)
	candidates := p.scoreCandidates(e, s, seat, analysis)
	if len(candidates) == 0 {
		return Decision{}, false
	}

	chosen := p.selectByDifficulty(candidates)

	p.logger.Debug("ai decision",
		zap.String("match_id", s.MatchID),
		zap.String("difficulty", p.difficulty.String()),
		zap.String("card_id", chosen.Card.ID),
		zap.Int("zone_id", chosen.ZoneID),
		zap.Float64("score", chosen.Score),
		zap.String("game_phase", analysis.phase.String()),
		zap.String("reasoning", chosen.Reasoning),
	)
	return chosen, true
}

// analyzeBoard computes the features scoring depends on: flip potential per
// zone, token totals, the AMR threat level, and both sides' win proximity.
func analyzeBoard(e *game.Engine, s *game.State, myTeam board.Team) boardAnalysis {
	settings := e.Settings()
	enemy := myTeam.Opponent()

	a := boardAnalysis{
		zones:     make([]zoneAnalysis, len(s.Zones)),
		amrThreat: s.AMR.Threat(),
	}

	tally := board.CountTally(s.Zones)
	a.myZones, a.enemyZones = tally.GoodZones, tally.BadZones
	a.myTokens, a.enemyTokens = tally.GoodTokens, tally.BadTokens
	if myTeam == board.TeamBad {
		a.myZones, a.enemyZones = a.enemyZones, a.myZones
		a.myTokens, a.enemyTokens = a.enemyTokens, a.myTokens
	}

	for i, z := range s.Zones {
		diff := z.GoodTokens - z.BadTokens
		if diff < 0 {
			diff = -diff
		}
		a.zones[i] = zoneAnalysis{
			zone:          z,
			space:         settings.ZoneCapacity - z.TotalTokens(),
			flipPotential: 1.0 / float64(diff+1),
			friendly:      z.ControlledBy == myTeam,
			enemy:         z.ControlledBy == enemy,
			neutral:       z.ControlledBy == board.TeamNone,
		}
	}

	a.myProximity = winProximity(myTeam, a.myZones, settings.ZoneControlCount, a.amrThreat)
	a.enemyProximity = winProximity(enemy, a.enemyZones, settings.ZoneControlCount, a.amrThreat)

	switch {
	case a.myProximity >= 0.8 || a.enemyProximity >= 0.8 || s.TurnNumber > 15:
		a.phase = phaseCritical
	case a.myProximity >= 0.6 || a.enemyProximity >= 0.6 || s.TurnNumber > 10:
		a.phase = phaseLate
	case s.TurnNumber > 5:
		a.phase = phaseMid
	default:
		a.phase = phaseEarly
	}
	return a
}

// winProximity estimates how close a team is to winning, as the best of
// its available victory tracks.
func winProximity(team board.Team, controlledZones, zoneControlCount int, amrThreat float64) float64 {
	proximity := float64(controlledZones) / float64(zoneControlCount)
	if team == board.TeamBad && amrThreat > proximity {
		proximity = amrThreat
	}
	if proximity > 1 {
		proximity = 1
	}
	return proximity
}

// scoreCandidates enumerates every legal card and zone pairing and scores
// it.
func (p *Player) scoreCandidates(e *game.Engine, s *game.State, seat game.Player, a boardAnalysis) []Decision {
	var out []Decision
	for _, inst := range seat.Hand {
		for zoneID := range s.Zones {
			if !e.CanPlayCard(s, inst.Card, zoneID) {
				continue
			}
			score := scorePlay(inst.Card, zoneID, seat.Team, a)
			out = append(out, Decision{
				Card:      inst,
				ZoneID:    zoneID,
				Score:     score,
				Reasoning: reasoning(inst.Card, a.zones[zoneID], score, seat.Team, a),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// scorePlay rates one card and zone pairing for the acting team.
func scorePlay(card cards.Card, zoneID int, team board.Team, a boardAnalysis) float64 {
	zone := a.zones[zoneID]
	score := 0.0

	for _, eff := range card.Effects {
		score += scoreEffect(eff, zone, team, a)
	}

	// Antibiotics accelerate resistance; good players pay for that, bad
	// players profit from it.
	if card.AMRCost > 0 {
		penalty := float64(card.AMRCost) * 8
		if team == board.TeamGood {
			score -= penalty * (1 + a.amrThreat)
		} else {
			score += penalty * 0.3
		}
	}

	switch {
	case zone.enemy:
		score += 8 * zone.flipPotential
	case zone.friendly:
		if zone.flipPotential > 0.3 {
			score += 5
		}
	case zone.neutral:
		score += 6
	}

	if a.myProximity >= 0.8 {
		score *= 1.3
	}
	if a.enemyProximity >= 0.8 && zone.enemy {
		score *= 1.4
	}

	switch a.phase {
	case phaseEarly:
		if zone.zone.TotalTokens() == 0 {
			score += 5
		}
	case phaseMid:
		if zone.neutral {
			score += 3
		}
	case phaseLate, phaseCritical:
		score *= 1.2
	}

	// Near-elimination survival: reinforcing the dwindling side dominates
	// everything else.
	if a.myTokens <= 3 {
		for _, eff := range card.Effects {
			if (eff.Kind == effects.KindAddGood && team == board.TeamGood) ||
				(eff.Kind == effects.KindAddBad && team == board.TeamBad) {
				score += 20
			}
		}
	}

	return score
}

// scoreEffect rates one effect against the target zone's current contents.
// Sign and magnitude depend on the acting team, the effect value, and what
// the zone actually holds: a nuke is worth the net token swing it causes,
// not a flat bonus.
func scoreEffect(eff effects.Effect, zone zoneAnalysis, team board.Team, a boardAnalysis) float64 {
	good := team == board.TeamGood
	base := float64(eff.Value) * 10
	score := 0.0

	switch eff.Kind {
	case effects.KindAddGood:
		score += pick(good, base, -base*0.8)
		if zone.space >= eff.Value {
			score += pick(good, 3, -2)
		}
		if eff.Spread == effects.SpreadOriginPlusRandom {
			score += pick(good, base*0.5, -base*0.4)
		}

	case effects.KindAddBad:
		score += pick(good, -base*0.8, base)
		if zone.space >= eff.Value {
			score += pick(good, -2, 3)
		}
		if eff.Spread == effects.SpreadOriginPlusRandom {
			score += pick(good, -base*0.4, base*0.5)
		}

	case effects.KindRemoveGood:
		score += pick(good, -base, base*0.9)
		if zone.zone.GoodTokens >= eff.Value {
			score += pick(good, -5, 5)
		}

	case effects.KindRemoveBad:
		score += pick(good, base*0.9, -base)
		if zone.zone.BadTokens >= eff.Value {
			score += pick(good, 5, -5)
		}

	case effects.KindKillBad:
		score += pick(good, base*0.8, -base*0.7)
		if eff.AMRChange > 0 {
			penalty := float64(eff.AMRChange) * 6 * (1 + a.amrThreat)
			score += pick(good, -penalty, penalty*0.3)
		}

	case effects.KindKillGood:
		score += pick(good, -base*0.8, base*0.8)
		if eff.AMRChange > 0 {
			score += pick(good, -float64(eff.AMRChange)*5, float64(eff.AMRChange)*2)
		}

	case effects.KindNukeZone:
		net := float64(zone.zone.BadTokens - zone.zone.GoodTokens)
		if !good {
			net = -net
		}
		score += net * 8
		if eff.AMRChange > 0 {
			score += pick(good, -float64(eff.AMRChange)*10*(1+a.amrThreat), float64(eff.AMRChange)*3)
		}

	case effects.KindClearBad:
		score += pick(good, float64(zone.zone.BadTokens)*8, -float64(zone.zone.BadTokens)*8)

	case effects.KindConvertGoodToBad:
		score += pick(good, -base*1.5, base*1.5)

	case effects.KindConvertBadToGood:
		score += pick(good, base*1.5, -base*1.5)

	case effects.KindRaiseAMR:
		score += pick(good, -float64(eff.Value)*6*(1+a.amrThreat), float64(eff.Value)*3)

	case effects.KindLowerAMR:
		score += pick(good, float64(eff.Value)*3, -float64(eff.Value)*3*(1+a.amrThreat))
	}

	return score
}

func pick(good bool, forGood, forBad float64) float64 {
	if good {
		return forGood
	}
	return forBad
}

// reasoning builds the human-readable explanation attached to a scored
// play.
func reasoning(card cards.Card, zone zoneAnalysis, score float64, team board.Team, a boardAnalysis) string {
	return fmt.Sprintf("[%.1f] %s: %s %s. %s",
		score, teamWord(team), describeAction(card, team), describeTarget(zone), describeStrategy(a))
}

func teamWord(team board.Team) string {
	if team == board.TeamGood {
		return "Good"
	}
	return "Bad"
}

func describeAction(card cards.Card, team board.Team) string {
	if card.IsAntibiotic() {
		return fmt.Sprintf("uses %s", card.Name)
	}
	for _, eff := range card.Effects {
		if (team == board.TeamGood && (eff.Kind == effects.KindRemoveBad || eff.Kind == effects.KindKillBad)) ||
			(team == board.TeamBad && (eff.Kind == effects.KindRemoveGood || eff.Kind == effects.KindKillGood)) {
			return fmt.Sprintf("attacks with %s", card.Name)
		}
	}
	return fmt.Sprintf("plays %s", card.Name)
}

func describeTarget(zone zoneAnalysis) string {
	switch {
	case zone.friendly:
		return fmt.Sprintf("to reinforce %s", zone.zone.Name)
	case zone.neutral:
		return fmt.Sprintf("to contest %s", zone.zone.Name)
	default:
		return fmt.Sprintf("to attack %s", zone.zone.Name)
	}
}

func describeStrategy(a boardAnalysis) string {
	switch {
	case a.myZones >= 4:
		return "Pressing for victory!"
	case a.enemyZones >= 4:
		return "Desperate defense!"
	case a.phase == phaseEarly:
		return "Establishing position."
	case a.phase == phaseCritical:
		return "Critical moment!"
	default:
		return "Building advantage."
	}
}

// selectByDifficulty adds choice noise: easy plays the best line only 30%
// of the time, medium samples the top candidates with decaying weights,
// hard plays near-optimally.
func (p *Player) selectByDifficulty(sorted []Decision) Decision {
	switch p.difficulty {
	case game.DifficultyEasy:
		if p.rand.Float64() < 0.3 {
			return sorted[0]
		}
		return sorted[p.rand.Intn(len(sorted))]

	case game.DifficultyHard:
		// 85% best, 10% second, 5% third; missing slots fall back to best.
		r := p.rand.Float64()
		switch {
		case r < 0.85:
			return sorted[0]
		case r < 0.95 && len(sorted) > 1:
			return sorted[1]
		case r >= 0.95 && len(sorted) > 2:
			return sorted[2]
		default:
			return sorted[0]
		}

	default: // medium
		pool := int(math.Ceil(float64(len(sorted)) / 2))
		if pool > 5 {
			pool = 5
		}
		weights := make([]float64, pool)
		total := 0.0
		for i := range weights {
			weights[i] = math.Pow(0.6, float64(i))
			total += weights[i]
		}
		r := p.rand.Float64() * total
		for i, w := range weights {
			r -= w
			if r <= 0 {
				return sorted[i]
			}
		}
		return sorted[pool-1]
	}
}
