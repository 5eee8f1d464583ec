// Package board models the nine-zone game board: bounded token counts per
// zone and the derived control majority.
package board

import "fmt"

// ZoneCount is fixed: the board always has nine linearly-connected zones.
const ZoneCount = 9

// Team identifies one of the two sides fighting over the board.
type Team int

const (
	TeamNone Team = iota
	TeamGood
	TeamBad
)

var teamNames = map[Team]string{
	TeamNone: "NONE",
	TeamGood: "GOOD",
	TeamBad:  "BAD",
}

func (t Team) String() string {
	if name, ok := teamNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TEAM_%d", int(t))
}

// Opponent returns the opposing team, or TeamNone for TeamNone.
func (t Team) Opponent() Team {
	switch t {
	case TeamGood:
		return TeamBad
	case TeamBad:
		return TeamGood
	default:
		return TeamNone
	}
}

// ZoneNames holds the display name for each zone id.
var ZoneNames = [ZoneCount]string{
	"Mouth",
	"Esophagus",
	"Stomach",
	"Duodenum",
	"Jejunum",
	"Ileum",
	"Cecum",
	"Colon",
	"Rectum",
}

// Zone is one board location. ControlledBy is derived from the token counts
// and is refreshed by UpdateControl after every mutation; it is never set
// directly.
type Zone struct {
	ID           int
	Name         string
	GoodTokens   int
	BadTokens    int
	Locked       bool
	ControlledBy Team
}

// NewZones creates the nine empty zones.
func NewZones() []Zone {
	zones := make([]Zone, ZoneCount)
	for i := range zones {
		zones[i] = Zone{ID: i, Name: ZoneNames[i]}
	}
	return zones
}

// TotalTokens returns the combined token count in the zone.
func (z *Zone) TotalTokens() int {
	return z.GoodTokens + z.BadTokens
}

// Tokens returns the count of the given team's tokens.
func (z *Zone) Tokens(team Team) int {
	if team == TeamGood {
		return z.GoodTokens
	}
	return z.BadTokens
}

// IsFull reports whether the zone is at capacity.
func (z *Zone) IsFull(capacity int) bool {
	return z.TotalTokens() >= capacity
}

// AddTokens adds up to amount tokens of the given team, capped by the space
// the other team's tokens leave under capacity. Returns the number actually
// added.
func (z *Zone) AddTokens(team Team, amount, capacity int) int {
	if amount <= 0 {
		return 0
	}
	var added int
	if team == TeamGood {
		limit := capacity - z.BadTokens
		added = min(amount, limit-z.GoodTokens)
		if added < 0 {
			added = 0
		}
		z.GoodTokens += added
	} else {
		limit := capacity - z.GoodTokens
		added = min(amount, limit-z.BadTokens)
		if added < 0 {
			added = 0
		}
		z.BadTokens += added
	}
	z.UpdateControl()
	return added
}

// RemoveTokens removes up to amount tokens of the given team, floored at
// zero. Returns the number actually removed.
func (z *Zone) RemoveTokens(team Team, amount int) int {
	if amount <= 0 {
		return 0
	}
	var removed int
	if team == TeamGood {
		removed = min(z.GoodTokens, amount)
		z.GoodTokens -= removed
	} else {
		removed = min(z.BadTokens, amount)
		z.BadTokens -= removed
	}
	z.UpdateControl()
	return removed
}

// ConvertTokens moves up to amount tokens from one team to the other within
// the capacity rule. Returns the number converted.
func (z *Zone) ConvertTokens(from Team, amount, capacity int) int {
	if amount <= 0 || z.Tokens(from) == 0 {
		return 0
	}
	converted := min(amount, z.Tokens(from))
	z.RemoveTokens(from, converted)
	// The removal always frees at least as much space as we re-add.
	z.AddTokens(from.Opponent(), converted, capacity)
	return converted
}

// Clear zeroes both token counts.
func (z *Zone) Clear() {
	z.GoodTokens = 0
	z.BadTokens = 0
	z.UpdateControl()
}

// UpdateControl recomputes the derived majority.
func (z *Zone) UpdateControl() {
	switch {
	case z.GoodTokens > z.BadTokens:
		z.ControlledBy = TeamGood
	case z.BadTokens > z.GoodTokens:
		z.ControlledBy = TeamBad
	default:
		z.ControlledBy = TeamNone
	}
}

// UpdateAllControl refreshes the derived control of every zone. Multi-zone
// effects can change control anywhere, so this runs board-wide after every
// effect application.
func UpdateAllControl(zones []Zone) {
	for i := range zones {
		zones[i].UpdateControl()
	}
}

// Tally summarizes zone control and token totals across the board.
type Tally struct {
	GoodZones    int
	BadZones     int
	NeutralZones int
	GoodTokens   int
	BadTokens    int
}

// CountTally computes the board-wide tally from token counts alone, so it is
// correct even before control has been refreshed.
func CountTally(zones []Zone) Tally {
	var t Tally
	for i := range zones {
		z := &zones[i]
		t.GoodTokens += z.GoodTokens
		t.BadTokens += z.BadTokens
		switch {
		case z.GoodTokens > z.BadTokens:
			t.GoodZones++
		case z.BadTokens > z.GoodTokens:
			t.BadZones++
		default:
			t.NeutralZones++
		}
	}
	return t
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
