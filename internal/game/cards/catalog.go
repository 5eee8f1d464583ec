package cards

import (
	_ "embed"
	"fmt"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/effects"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog holds the full immutable card and event definitions for a match.
type Catalog struct {
	GoodBehavior []Card
	BadBehavior  []Card
	GlobalEvents []GlobalEvent

	cardsByID  map[string]Card
	eventsByID map[string]GlobalEvent
}

type rawEffect struct {
	Kind      string `yaml:"kind"`
	Value     int    `yaml:"value"`
	Target    string `yaml:"target"`
	AMRChange int    `yaml:"amr_change"`
	Spread    string `yaml:"spread"`
	Count     int    `yaml:"count"`
}

type rawCard struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Description string      `yaml:"description"`
	Fact        string      `yaml:"fact"`
	Effects     []rawEffect `yaml:"effects"`
	AMRCost     int         `yaml:"amr_cost"`
	Artwork     string      `yaml:"artwork"`
}

type rawEvent struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Fact        string      `yaml:"fact"`
	Effects     []rawEffect `yaml:"effects"`
	Artwork     string      `yaml:"artwork"`
}

type rawCatalog struct {
	GoodBehavior []rawCard  `yaml:"good_behavior"`
	BadBehavior  []rawCard  `yaml:"bad_behavior"`
	GlobalEvents []rawEvent `yaml:"global_events"`
}

// Load parses the embedded catalog. Tag errors fail here, at startup,
// rather than surfacing as silent no-ops during resolution.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse builds a validated catalog from YAML data.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	c := &Catalog{
		cardsByID:  make(map[string]Card),
		eventsByID: make(map[string]GlobalEvent),
	}

	for _, rc := range raw.GoodBehavior {
		card, err := buildCard(rc, DeckGoodBehavior)
		if err != nil {
			return nil, err
		}
		if err := c.indexCard(card); err != nil {
			return nil, err
		}
		c.GoodBehavior = append(c.GoodBehavior, card)
	}
	for _, rc := range raw.BadBehavior {
		card, err := buildCard(rc, DeckBadBehavior)
		if err != nil {
			return nil, err
		}
		if err := c.indexCard(card); err != nil {
			return nil, err
		}
		c.BadBehavior = append(c.BadBehavior, card)
	}
	for _, re := range raw.GlobalEvents {
		event, err := buildEvent(re)
		if err != nil {
			return nil, err
		}
		if _, dup := c.eventsByID[event.ID]; dup {
			return nil, fmt.Errorf("duplicate event id %q", event.ID)
		}
		c.eventsByID[event.ID] = event
		c.GlobalEvents = append(c.GlobalEvents, event)
	}

	if len(c.GoodBehavior) == 0 || len(c.BadBehavior) == 0 {
		return nil, fmt.Errorf("catalog must define both behavior decks")
	}
	return c, nil
}

func (c *Catalog) indexCard(card Card) error {
	if _, dup := c.cardsByID[card.ID]; dup {
		return fmt.Errorf("duplicate card id %q", card.ID)
	}
	c.cardsByID[card.ID] = card
	return nil
}

func buildCard(rc rawCard, deck DeckType) (Card, error) {
	if rc.ID == "" || rc.Name == "" {
		return Card{}, fmt.Errorf("card %q: id and name are required", rc.ID)
	}
	cardType, err := ParseType(rc.Type)
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", rc.ID, err)
	}
	if rc.AMRCost < 0 {
		return Card{}, fmt.Errorf("card %q: amr_cost must be non-negative", rc.ID)
	}
	effs, err := buildEffects(rc.ID, rc.Effects)
	if err != nil {
		return Card{}, err
	}
	return Card{
		ID:              rc.ID,
		Name:            rc.Name,
		Type:            cardType,
		Deck:            deck,
		Description:     rc.Description,
		EducationalFact: rc.Fact,
		Effects:         effs,
		AMRCost:         rc.AMRCost,
		Artwork:         rc.Artwork,
	}, nil
}

func buildEvent(re rawEvent) (GlobalEvent, error) {
	if re.ID == "" || re.Title == "" {
		return GlobalEvent{}, fmt.Errorf("event %q: id and title are required", re.ID)
	}
	effs, err := buildEffects(re.ID, re.Effects)
	if err != nil {
		return GlobalEvent{}, err
	}
	return GlobalEvent{
		ID:              re.ID,
		Title:           re.Title,
		Description:     re.Description,
		EducationalFact: re.Fact,
		Effects:         effs,
		Artwork:         re.Artwork,
	}, nil
}

func buildEffects(owner string, raws []rawEffect) ([]effects.Effect, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("%q: at least one effect is required", owner)
	}
	effs := make([]effects.Effect, 0, len(raws))
	for _, r := range raws {
		kind, err := effects.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", owner, err)
		}
		target, err := effects.ParseTarget(r.Target)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", owner, err)
		}
		spread, err := effects.ParseSpread(r.Spread)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", owner, err)
		}
		if r.Value < 0 {
			return nil, fmt.Errorf("%q: effect value must be non-negative", owner)
		}
		effs = append(effs, effects.Effect{
			Kind:        kind,
			Value:       r.Value,
			Target:      target,
			AMRChange:   r.AMRChange,
			Spread:      spread,
			SpreadCount: r.Count,
		})
	}
	return effs, nil
}

// ByTeam returns the behavior definitions for a team's deck.
func (c *Catalog) ByTeam(team board.Team) []Card {
	if team == board.TeamGood {
		return c.GoodBehavior
	}
	return c.BadBehavior
}

// ByType returns every card of the given type across both decks.
func (c *Catalog) ByType(t Type) []Card {
	var out []Card
	for _, card := range c.GoodBehavior {
		if card.Type == t {
			out = append(out, card)
		}
	}
	for _, card := range c.BadBehavior {
		if card.Type == t {
			out = append(out, card)
		}
	}
	return out
}

// CardByID looks up a card definition.
func (c *Catalog) CardByID(id string) (Card, bool) {
	card, ok := c.cardsByID[id]
	return card, ok
}

// EventByID looks up a global event definition.
func (c *Catalog) EventByID(id string) (GlobalEvent, bool) {
	event, ok := c.eventsByID[id]
	return event, ok
}
