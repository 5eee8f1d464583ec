package effects

import (
	"testing"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/meter"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

func newContext(t *testing.T) *Context {
	t.Helper()
	amr := meter.New(1, 10)
	return &Context{
		Zones:    board.NewZones(),
		AMR:      &amr,
		Capacity: 5,
		Rand:     random.NewSource(1),
	}
}

func TestAddGoodRespectsOtherTypeCapacity(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[2].GoodTokens = 3
	ctx.Zones[2].BadTokens = 1

	Apply(ctx, []Effect{{Kind: KindAddGood, Value: 2}}, 2)

	// Capacity 5 with 1 bad token leaves room for exactly one more good.
	if ctx.Zones[2].GoodTokens != 4 || ctx.Zones[2].BadTokens != 1 {
		t.Fatalf("expected {4,1}, got {%d,%d}", ctx.Zones[2].GoodTokens, ctx.Zones[2].BadTokens)
	}
	if ctx.Zones[2].ControlledBy != board.TeamGood {
		t.Fatalf("expected good control, got %s", ctx.Zones[2].ControlledBy)
	}
}

func TestRemoveFloorsAtZero(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[0].BadTokens = 1

	Apply(ctx, []Effect{{Kind: KindRemoveBad, Value: 3}}, 0)

	if ctx.Zones[0].BadTokens != 0 {
		t.Fatalf("expected 0 bad tokens, got %d", ctx.Zones[0].BadTokens)
	}
}

func TestKillRaisesAMR(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[4].BadTokens = 3

	Apply(ctx, []Effect{{Kind: KindKillBad, Value: 2, AMRChange: 1}}, 4)

	if ctx.Zones[4].BadTokens != 1 {
		t.Fatalf("expected 1 bad token, got %d", ctx.Zones[4].BadTokens)
	}
	if ctx.AMR.Level != 2 {
		t.Fatalf("expected AMR 2, got %d", ctx.AMR.Level)
	}
}

func TestNukeEmptyZoneOnlyMovesAMR(t *testing.T) {
	ctx := newContext(t)

	Apply(ctx, []Effect{{Kind: KindNukeZone, AMRChange: 2}}, 3)

	if ctx.Zones[3].TotalTokens() != 0 {
		t.Fatalf("expected empty zone, got %d tokens", ctx.Zones[3].TotalTokens())
	}
	if ctx.AMR.Level != 3 {
		t.Fatalf("expected AMR 3, got %d", ctx.AMR.Level)
	}
}

func TestAMRNeverExceedsCeiling(t *testing.T) {
	ctx := newContext(t)
	ctx.AMR.Level = 9

	Apply(ctx, []Effect{{Kind: KindRaiseAMR, Value: 5}}, 0)

	if ctx.AMR.Level != 10 {
		t.Fatalf("expected AMR clamped at 10, got %d", ctx.AMR.Level)
	}

	Apply(ctx, []Effect{{Kind: KindLowerAMR, Value: 99}}, 0)
	if ctx.AMR.Level != 0 {
		t.Fatalf("expected AMR floored at 0, got %d", ctx.AMR.Level)
	}
}

func TestConvertMovesWithinCapacity(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[1].GoodTokens = 1
	ctx.Zones[1].BadTokens = 3

	Apply(ctx, []Effect{{Kind: KindConvertBadToGood, Value: 2}}, 1)

	z := ctx.Zones[1]
	if z.GoodTokens != 3 || z.BadTokens != 1 {
		t.Fatalf("expected {3,1}, got {%d,%d}", z.GoodTokens, z.BadTokens)
	}
	if z.TotalTokens() != 4 {
		t.Fatalf("conversion changed total tokens: %d", z.TotalTokens())
	}
}

func TestOriginPlusRandomHitsExactlyTwoZones(t *testing.T) {
	ctx := newContext(t)

	Apply(ctx, []Effect{{Kind: KindAddGood, Value: 1, Spread: SpreadOriginPlusRandom}}, 0)

	total := 0
	touched := 0
	for _, z := range ctx.Zones {
		total += z.GoodTokens
		if z.GoodTokens > 0 {
			touched++
		}
	}
	if total != 2 || touched != 2 {
		t.Fatalf("expected 2 tokens across 2 zones, got %d tokens across %d zones", total, touched)
	}
	if ctx.Zones[0].GoodTokens != 1 {
		t.Fatal("origin zone must always be affected")
	}
}

func TestFirstWithTokensCapsAtCount(t *testing.T) {
	ctx := newContext(t)
	for i := 0; i < 5; i++ {
		ctx.Zones[i].BadTokens = 2
	}

	Apply(ctx, []Effect{{
		Kind: KindRemoveBad, Value: 1,
		Spread: SpreadFirstWithTokens, SpreadCount: 3,
	}}, 0)

	for i := 0; i < 3; i++ {
		if ctx.Zones[i].BadTokens != 1 {
			t.Fatalf("zone %d: expected 1 bad token, got %d", i, ctx.Zones[i].BadTokens)
		}
	}
	for i := 3; i < 5; i++ {
		if ctx.Zones[i].BadTokens != 2 {
			t.Fatalf("zone %d: expected untouched, got %d", i, ctx.Zones[i].BadTokens)
		}
	}
}

func TestAllOverTwoBad(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[0].BadTokens = 3
	ctx.Zones[1].BadTokens = 2
	ctx.Zones[2].BadTokens = 4

	Apply(ctx, []Effect{{Kind: KindRemoveBad, Value: 1, Spread: SpreadAllOverTwoBad}}, 0)

	if ctx.Zones[0].BadTokens != 2 || ctx.Zones[2].BadTokens != 3 {
		t.Fatalf("zones over two bad not reduced: %d, %d", ctx.Zones[0].BadTokens, ctx.Zones[2].BadTokens)
	}
	if ctx.Zones[1].BadTokens != 2 {
		t.Fatalf("zone at exactly two bad must be untouched, got %d", ctx.Zones[1].BadTokens)
	}
}

func TestRandomWithSpaceSkipsFullZones(t *testing.T) {
	ctx := newContext(t)
	for i := range ctx.Zones {
		if i != 7 {
			ctx.Zones[i].GoodTokens = 5
		}
	}

	Apply(ctx, []Effect{{
		Kind: KindAddBad, Value: 1,
		Spread: SpreadRandomWithSpace, SpreadCount: 4,
	}}, 0)

	if ctx.Zones[7].BadTokens != 1 {
		t.Fatalf("only open zone must receive the token, got %d", ctx.Zones[7].BadTokens)
	}
	for i := range ctx.Zones {
		if i != 7 && ctx.Zones[i].BadTokens != 0 {
			t.Fatalf("full zone %d received tokens", i)
		}
	}
}

func TestExtremalSpreads(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[3].GoodTokens = 4
	ctx.Zones[5].GoodTokens = 1

	Apply(ctx, []Effect{{Kind: KindAddBad, Value: 1, Spread: SpreadMostGood}}, 0)
	if ctx.Zones[3].BadTokens != 1 {
		t.Fatalf("most-good zone must be hit, got %d", ctx.Zones[3].BadTokens)
	}

	Apply(ctx, []Effect{{Kind: KindAddGood, Value: 2, Spread: SpreadFewestGood}}, 0)
	// Zones 0..2 all hold zero good tokens; the first of them wins.
	if ctx.Zones[0].GoodTokens != 2 {
		t.Fatalf("fewest-good zone must be hit, got %d", ctx.Zones[0].GoodTokens)
	}
}

func TestClearBadZeroesOnlyBad(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[6].GoodTokens = 2
	ctx.Zones[6].BadTokens = 3

	Apply(ctx, []Effect{{Kind: KindClearBad, Spread: SpreadRandomWithBad, SpreadCount: 1}}, 0)

	if ctx.Zones[6].BadTokens != 0 {
		t.Fatalf("expected bad tokens cleared, got %d", ctx.Zones[6].BadTokens)
	}
	if ctx.Zones[6].GoodTokens != 2 {
		t.Fatalf("good tokens must survive, got %d", ctx.Zones[6].GoodTokens)
	}
}

func TestPreviewProducesMessageWithoutMutation(t *testing.T) {
	ctx := newContext(t)
	ctx.Zones[0].GoodTokens = 2
	ctx.UpcomingEvents = func(n int) []string {
		return []string{"Farming Overuse", "Health Campaign"}[:n]
	}

	msgs := Apply(ctx, []Effect{{Kind: KindPreviewEvents, Value: 2}}, 0)

	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if msgs[0] != "Upcoming events: Farming Overuse, Health Campaign" {
		t.Fatalf("unexpected message: %q", msgs[0])
	}
	if ctx.Zones[0].GoodTokens != 2 || ctx.AMR.Level != 1 {
		t.Fatal("preview must not mutate state")
	}
}

func TestParseRoundTrips(t *testing.T) {
	for k, name := range kindNames {
		parsed, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", name, err)
		}
		if parsed != k {
			t.Fatalf("ParseKind(%q) = %v, want %v", name, parsed, k)
		}
	}
	if _, err := ParseKind("explode"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if _, err := ParseSpread("everywhere"); err == nil {
		t.Fatal("expected error for unknown spread")
	}
	if tgt, err := ParseTarget(""); err != nil || tgt != TargetAny {
		t.Fatalf("empty target must parse as any, got %v, %v", tgt, err)
	}
}
