package cards

import (
	"github.com/google/uuid"
	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

// Shuffle returns a uniformly-random permutation of items (Fisher-Yates).
// The input sequence is never mutated.
func Shuffle[T any](src *random.Source, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	src.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// BuildDeck concatenates copies repetitions of the team's catalog, shuffles
// them, and assigns each card a unique instance id.
func (c *Catalog) BuildDeck(src *random.Source, team board.Team, copies int) []Instance {
	defs := c.ByTeam(team)
	pool := make([]Card, 0, len(defs)*copies)
	for i := 0; i < copies; i++ {
		pool = append(pool, defs...)
	}
	shuffled := Shuffle(src, pool)

	deck := make([]Instance, len(shuffled))
	for i, def := range shuffled {
		deck[i] = Instance{Card: def, InstanceID: uuid.NewString()}
	}
	return deck
}

// BuildEventDeck returns a shuffled copy of the global event pile.
func (c *Catalog) BuildEventDeck(src *random.Source) []GlobalEvent {
	return Shuffle(src, c.GlobalEvents)
}

// Draw splits count cards off the top of a deck. Drawing from a short or
// empty deck yields fewer (possibly zero) cards; it never fails.
func Draw[T any](deck []T, count int) (drawn, remaining []T) {
	if count < 0 {
		count = 0
	}
	if count > len(deck) {
		count = len(deck)
	}
	drawn = append(drawn, deck[:count]...)
	remaining = append(remaining, deck[count:]...)
	return drawn, remaining
}
