// Package effects defines the effect vocabulary of cards and global events
// and the engine that resolves effect lists against the board.
//
// An Effect is a tagged variant: the Kind selects the state transformation,
// the Spread selects which zones receive it. There are no string-typed
// dispatch paths and no per-card fallbacks; unknown tags are rejected when
// the catalog is loaded.
package effects

import "fmt"

// Kind is the atomic state transformation an effect applies.
type Kind int

const (
	KindAddGood Kind = iota
	KindAddBad
	KindRemoveGood
	KindRemoveBad
	KindKillGood
	KindKillBad
	KindNukeZone
	KindConvertGoodToBad
	KindConvertBadToGood
	KindClearBad
	KindRaiseAMR
	KindLowerAMR
	KindPreviewEvents
)

var kindNames = map[Kind]string{
	KindAddGood:          "add_good",
	KindAddBad:           "add_bad",
	KindRemoveGood:       "remove_good",
	KindRemoveBad:        "remove_bad",
	KindKillGood:         "kill_good",
	KindKillBad:          "kill_bad",
	KindNukeZone:         "nuke_zone",
	KindConvertGoodToBad: "convert_good_to_bad",
	KindConvertBadToGood: "convert_bad_to_good",
	KindClearBad:         "clear_bad",
	KindRaiseAMR:         "raise_amr",
	KindLowerAMR:         "lower_amr",
	KindPreviewEvents:    "preview_events",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind_%d", int(k))
}

// ParseKind converts a catalog tag into a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// Target is the precondition the origin zone must satisfy for a card
// carrying the effect to be legally played there.
type Target int

const (
	TargetAny Target = iota
	TargetHasGood
	TargetHasBad
	TargetEmpty
)

var targetNames = map[Target]string{
	TargetAny:     "any",
	TargetHasGood: "has_good",
	TargetHasBad:  "has_bad",
	TargetEmpty:   "empty",
}

func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return fmt.Sprintf("target_%d", int(t))
}

// ParseTarget converts a catalog tag into a Target. The empty string means
// TargetAny.
func ParseTarget(s string) (Target, error) {
	if s == "" {
		return TargetAny, nil
	}
	for t, name := range targetNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown zone target %q", s)
}

// Spread selects the zones an effect applies to. SpreadOrigin is the
// single-zone default; the rest are the multi-zone and extremal variants
// used by cards and global events.
type Spread int

const (
	// SpreadOrigin applies to the origin zone only.
	SpreadOrigin Spread = iota
	// SpreadOriginPlusRandom applies to the origin zone and one
	// uniformly-random other zone.
	SpreadOriginPlusRandom
	// SpreadFirstWithTokens applies to up to Count zones, in board order,
	// that hold tokens of the affected type.
	SpreadFirstWithTokens
	// SpreadRandomWithBad applies to Count random zones holding bad tokens.
	SpreadRandomWithBad
	// SpreadAllOverTwoBad applies to every zone holding more than two bad
	// tokens.
	SpreadAllOverTwoBad
	// SpreadRandomWithSpace applies to Count random zones with spare
	// capacity.
	SpreadRandomWithSpace
	// SpreadMostGood applies to the zone with the most good tokens.
	SpreadMostGood
	// SpreadFewestGood applies to the zone with the fewest good tokens.
	SpreadFewestGood
	// SpreadAllWithSpace applies to every zone with spare capacity.
	SpreadAllWithSpace
	// SpreadRandomWithGood applies to Count random zones holding good
	// tokens.
	SpreadRandomWithGood
)

var spreadNames = map[Spread]string{
	SpreadOrigin:           "origin",
	SpreadOriginPlusRandom: "origin_plus_random",
	SpreadFirstWithTokens:  "first_with_tokens",
	SpreadRandomWithBad:    "random_with_bad",
	SpreadAllOverTwoBad:    "all_over_two_bad",
	SpreadRandomWithSpace:  "random_with_space",
	SpreadMostGood:         "most_good",
	SpreadFewestGood:       "fewest_good",
	SpreadAllWithSpace:     "all_with_space",
	SpreadRandomWithGood:   "random_with_good",
}

func (s Spread) String() string {
	if name, ok := spreadNames[s]; ok {
		return name
	}
	return fmt.Sprintf("spread_%d", int(s))
}

// ParseSpread converts a catalog tag into a Spread. The empty string means
// SpreadOrigin.
func ParseSpread(s string) (Spread, error) {
	if s == "" {
		return SpreadOrigin, nil
	}
	for sp, name := range spreadNames {
		if name == s {
			return sp, nil
		}
	}
	return 0, fmt.Errorf("unknown effect spread %q", s)
}

// Effect is one atomic, data-only transformation. The resolver interprets
// Kind and Spread; effects carry no behavior themselves.
type Effect struct {
	Kind        Kind
	Value       int
	Target      Target
	AMRChange   int
	Spread      Spread
	SpreadCount int
}

// Mutates reports whether the effect changes game state at all.
// Preview effects only surface a status message.
func (e Effect) Mutates() bool {
	return e.Kind != KindPreviewEvents
}
