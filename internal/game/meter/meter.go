// Package meter implements the shared antimicrobial resistance (AMR) meter:
// a bounded counter that both sides push against and that can end the game
// on its own when it reaches the ceiling.
package meter

// Meter is a counter clamped into [0, Max].
type Meter struct {
	Level int
	Max   int
}

// New creates a meter at the given starting level, clamped into range.
func New(start, max int) Meter {
	m := Meter{Max: max}
	m.Raise(start)
	return m
}

// Raise adds amount to the level, capped at Max. Returns the amount actually
// applied.
func (m *Meter) Raise(amount int) int {
	if amount <= 0 {
		return 0
	}
	applied := amount
	if m.Level+applied > m.Max {
		applied = m.Max - m.Level
	}
	m.Level += applied
	return applied
}

// Lower subtracts amount from the level, floored at zero. Returns the amount
// actually applied.
func (m *Meter) Lower(amount int) int {
	if amount <= 0 {
		return 0
	}
	applied := amount
	if applied > m.Level {
		applied = m.Level
	}
	m.Level -= applied
	return applied
}

// AtCeiling reports whether the meter has reached its maximum.
func (m *Meter) AtCeiling() bool {
	return m.Level >= m.Max
}

// Threat returns the level as a fraction of the ceiling in [0, 1].
func (m *Meter) Threat() float64 {
	if m.Max <= 0 {
		return 0
	}
	return float64(m.Level) / float64(m.Max)
}
