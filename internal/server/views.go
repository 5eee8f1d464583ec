package server

import (
	"time"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
)

// ZoneView is the wire form of one gut zone.
type ZoneView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	GoodTokens   int    `json:"good_tokens"`
	BadTokens    int    `json:"bad_tokens"`
	ControlledBy string `json:"controlled_by"`
	Locked       bool   `json:"locked"`
}

// CardView is the wire form of one hand card.
type CardView struct {
	InstanceID      string `json:"instance_id"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Description     string `json:"description"`
	EducationalFact string `json:"educational_fact,omitempty"`
	AMRCost         int    `json:"amr_cost"`
	Artwork         string `json:"artwork,omitempty"`
}

// PlayerView is the wire form of one seat. Hands are only included for the
// seat itself in hot-seat play; spectators see counts.
type PlayerView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Team       string     `json:"team"`
	IsAI       bool       `json:"is_ai"`
	Difficulty string     `json:"difficulty,omitempty"`
	HandCount  int        `json:"hand_count"`
	Hand       []CardView `json:"hand,omitempty"`
}

// EventView is the wire form of a pending global event.
type EventView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	EducationalFact string `json:"educational_fact,omitempty"`
	Artwork         string `json:"artwork,omitempty"`
}

// LogView is one action log line.
type LogView struct {
	Timestamp time.Time `json:"timestamp"`
	Player    string    `json:"player"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// StateView is the full wire form of a match state.
type StateView struct {
	MatchID            string       `json:"match_id"`
	Mode               string       `json:"mode"`
	Phase              string       `json:"phase"`
	Zones              []ZoneView   `json:"zones"`
	AMRLevel           int          `json:"amr_level"`
	AMRMax             int          `json:"amr_max"`
	Players            []PlayerView `json:"players"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	CurrentDieRoll     int          `json:"current_die_roll,omitempty"`
	CurrentEvent       *EventView   `json:"current_event,omitempty"`
	SelectedCardID     string       `json:"selected_card_id,omitempty"`
	TurnNumber         int          `json:"turn_number"`
	Winner             string       `json:"winner,omitempty"`
	Message            string       `json:"message"`
	ActionLog          []LogView    `json:"action_log"`
	GoodDeckCount      int          `json:"good_deck_count"`
	BadDeckCount       int          `json:"bad_deck_count"`
	EventDeckCount     int          `json:"event_deck_count"`
	IsSpectator        bool         `json:"is_spectator"`
}

func cardView(inst cards.Instance) CardView {
	return CardView{
		InstanceID:      inst.InstanceID,
		ID:              inst.ID,
		Name:            inst.Name,
		Type:            inst.Type.String(),
		Description:     inst.Description,
		EducationalFact: inst.EducationalFact,
		AMRCost:         inst.AMRCost,
		Artwork:         inst.Artwork,
	}
}

// buildStateView flattens a state for the client. Hot-seat play shows every
// hand; there is no hidden information between seats sharing a screen.
func buildStateView(s *game.State) StateView {
	view := StateView{
		MatchID:            s.MatchID,
		Mode:               s.Mode.String(),
		Phase:              s.Phase.String(),
		AMRLevel:           s.AMR.Level,
		AMRMax:             s.AMR.Max,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		CurrentDieRoll:     s.CurrentDieRoll,
		TurnNumber:         s.TurnNumber,
		Message:            s.Message,
		GoodDeckCount:      len(s.GoodDeck),
		BadDeckCount:       len(s.BadDeck),
		EventDeckCount:     len(s.EventDeck),
		IsSpectator:        s.IsSpectator(),
	}

	view.Zones = make([]ZoneView, len(s.Zones))
	for i, z := range s.Zones {
		view.Zones[i] = ZoneView{
			ID:           z.ID,
			Name:         z.Name,
			GoodTokens:   z.GoodTokens,
			BadTokens:    z.BadTokens,
			ControlledBy: z.ControlledBy.String(),
			Locked:       z.Locked,
		}
	}

	view.Players = make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		pv := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Team:      p.Team.String(),
			IsAI:      p.IsAI,
			HandCount: len(p.Hand),
		}
		if p.IsAI {
			pv.Difficulty = p.Difficulty.String()
		} else {
			pv.Hand = make([]CardView, len(p.Hand))
			for j, inst := range p.Hand {
				pv.Hand[j] = cardView(inst)
			}
		}
		view.Players[i] = pv
	}

	if s.CurrentEvent != nil {
		view.CurrentEvent = &EventView{
			ID:              s.CurrentEvent.ID,
			Title:           s.CurrentEvent.Title,
			Description:     s.CurrentEvent.Description,
			EducationalFact: s.CurrentEvent.EducationalFact,
			Artwork:         s.CurrentEvent.Artwork,
		}
	}
	if s.SelectedCard != nil {
		view.SelectedCardID = s.SelectedCard.InstanceID
	}
	if s.Winner != rules.WinNone {
		view.Winner = s.Winner.String()
	}

	view.ActionLog = make([]LogView, len(s.ActionLog))
	for i, entry := range s.ActionLog {
		view.ActionLog[i] = LogView(entry)
	}

	return view
}
