// Package cards holds the immutable card/event catalog and the deck
// manager that turns catalog definitions into shuffled piles of unique
// play-instances.
package cards

import (
	"fmt"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/effects"
)

// Type classifies how a card is played and which legality exceptions apply
// (antibiotics may target full zones).
type Type int

const (
	TypeBehavior Type = iota
	TypeAntibiotic
	TypeAction
)

var typeNames = map[Type]string{
	TypeBehavior:   "behavior",
	TypeAntibiotic: "antibiotic",
	TypeAction:     "action",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type_%d", int(t))
}

// ParseType converts a catalog tag into a Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}

// DeckType identifies which pile a definition belongs to.
type DeckType int

const (
	DeckGoodBehavior DeckType = iota
	DeckBadBehavior
	DeckGlobalEvents
)

var deckTypeNames = map[DeckType]string{
	DeckGoodBehavior: "good_behavior",
	DeckBadBehavior:  "bad_behavior",
	DeckGlobalEvents: "global_events",
}

func (d DeckType) String() string {
	if name, ok := deckTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("deck_%d", int(d))
}

// Team returns the side that draws from this deck type.
func (d DeckType) Team() board.Team {
	switch d {
	case DeckGoodBehavior:
		return board.TeamGood
	case DeckBadBehavior:
		return board.TeamBad
	default:
		return board.TeamNone
	}
}

// Card is an immutable catalog definition.
type Card struct {
	ID              string
	Name            string
	Type            Type
	Deck            DeckType
	Description     string
	EducationalFact string
	Effects         []effects.Effect
	AMRCost         int
	Artwork         string
}

// IsAntibiotic reports whether the card is antibiotic-typed.
func (c Card) IsAntibiotic() bool {
	return c.Type == TypeAntibiotic
}

// TotalAMRImpact returns the card's base AMR cost plus every effect-borne
// AMR change.
func (c Card) TotalAMRImpact() int {
	total := c.AMRCost
	for _, eff := range c.Effects {
		total += eff.AMRChange
	}
	return total
}

// Instance is one dealt copy of a card definition. Instances are created
// when drawn into a deck and destroyed when played or discarded; exactly
// one hand or deck owns an instance at a time.
type Instance struct {
	Card
	InstanceID string
}

// GlobalEvent is a shared, non-hand-based effect source drawn from its own
// pile on a high die roll and consumed once.
type GlobalEvent struct {
	ID              string
	Title           string
	Description     string
	EducationalFact string
	Effects         []effects.Effect
	Artwork         string
}
