package effects

import (
	"fmt"
	"strings"

	"github.com/gutlands/gutlands-server-go/internal/game/board"
	"github.com/gutlands/gutlands-server-go/internal/game/meter"
	"github.com/gutlands/gutlands-server-go/internal/random"
)

// Context is the mutable surface the resolver works against for one card
// play or event resolution. Zones and AMR are mutated in place; the caller
// owns cloning.
type Context struct {
	Zones    []board.Zone
	AMR      *meter.Meter
	Capacity int
	Rand     *random.Source

	// UpcomingEvents returns the titles of the next n events in the shared
	// pile, for preview effects. May be nil when no event deck is in play.
	UpcomingEvents func(n int) []string
}

// Apply resolves an effect list against the board, using originZone as the
// single-zone target. It returns any status messages produced by
// non-mutating effects. Control is recomputed for all zones afterward,
// since multi-zone effects can change control anywhere.
func Apply(ctx *Context, effs []Effect, originZone int) []string {
	var messages []string
	for _, eff := range effs {
		if msg := applyOne(ctx, eff, originZone); msg != "" {
			messages = append(messages, msg)
		}
	}
	board.UpdateAllControl(ctx.Zones)
	return messages
}

func applyOne(ctx *Context, eff Effect, originZone int) string {
	switch eff.Kind {
	case KindRaiseAMR:
		ctx.AMR.Raise(eff.Value)
		return ""
	case KindLowerAMR:
		ctx.AMR.Lower(eff.Value)
		return ""
	case KindPreviewEvents:
		return previewMessage(ctx, eff.Value)
	}

	for _, id := range selectZones(ctx, eff, originZone) {
		applyToZone(ctx, eff, &ctx.Zones[id])
	}
	return ""
}

// selectZones resolves the effect's spread into concrete zone ids.
func selectZones(ctx *Context, eff Effect, originZone int) []int {
	switch eff.Spread {
	case SpreadOrigin:
		return []int{originZone}

	case SpreadOriginPlusRandom:
		ids := []int{originZone}
		others := make([]int, 0, len(ctx.Zones)-1)
		for i := range ctx.Zones {
			if i != originZone {
				others = append(others, i)
			}
		}
		if len(others) > 0 {
			ids = append(ids, others[ctx.Rand.Intn(len(others))])
		}
		return ids

	case SpreadFirstWithTokens:
		team := affectedTeam(eff.Kind)
		var ids []int
		for i := range ctx.Zones {
			if len(ids) >= spreadCount(eff) {
				break
			}
			if ctx.Zones[i].Tokens(team) > 0 {
				ids = append(ids, i)
			}
		}
		return ids

	case SpreadRandomWithBad:
		return pickRandom(ctx, spreadCount(eff), func(z *board.Zone) bool {
			return z.BadTokens > 0
		})

	case SpreadAllOverTwoBad:
		var ids []int
		for i := range ctx.Zones {
			if ctx.Zones[i].BadTokens > 2 {
				ids = append(ids, i)
			}
		}
		return ids

	case SpreadRandomWithSpace:
		return pickRandom(ctx, spreadCount(eff), func(z *board.Zone) bool {
			return !z.IsFull(ctx.Capacity)
		})

	case SpreadMostGood:
		best := -1
		for i := range ctx.Zones {
			if best == -1 || ctx.Zones[i].GoodTokens > ctx.Zones[best].GoodTokens {
				best = i
			}
		}
		return []int{best}

	case SpreadFewestGood:
		best := -1
		for i := range ctx.Zones {
			if best == -1 || ctx.Zones[i].GoodTokens < ctx.Zones[best].GoodTokens {
				best = i
			}
		}
		return []int{best}

	case SpreadAllWithSpace:
		var ids []int
		for i := range ctx.Zones {
			if !ctx.Zones[i].IsFull(ctx.Capacity) {
				ids = append(ids, i)
			}
		}
		return ids

	case SpreadRandomWithGood:
		return pickRandom(ctx, spreadCount(eff), func(z *board.Zone) bool {
			return z.GoodTokens > 0
		})

	default:
		return []int{originZone}
	}
}

// pickRandom returns up to count zone ids matching the predicate, chosen by
// shuffling the matching set.
func pickRandom(ctx *Context, count int, match func(z *board.Zone) bool) []int {
	var ids []int
	for i := range ctx.Zones {
		if match(&ctx.Zones[i]) {
			ids = append(ids, i)
		}
	}
	ctx.Rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids
}

func applyToZone(ctx *Context, eff Effect, z *board.Zone) {
	switch eff.Kind {
	case KindAddGood:
		z.AddTokens(board.TeamGood, eff.Value, ctx.Capacity)
	case KindAddBad:
		z.AddTokens(board.TeamBad, eff.Value, ctx.Capacity)
	case KindRemoveGood:
		z.RemoveTokens(board.TeamGood, eff.Value)
	case KindRemoveBad:
		z.RemoveTokens(board.TeamBad, eff.Value)
	case KindKillGood:
		z.RemoveTokens(board.TeamGood, eff.Value)
		ctx.AMR.Raise(eff.AMRChange)
	case KindKillBad:
		z.RemoveTokens(board.TeamBad, eff.Value)
		ctx.AMR.Raise(eff.AMRChange)
	case KindNukeZone:
		z.Clear()
		ctx.AMR.Raise(eff.AMRChange)
	case KindConvertGoodToBad:
		z.ConvertTokens(board.TeamGood, eff.Value, ctx.Capacity)
	case KindConvertBadToGood:
		z.ConvertTokens(board.TeamBad, eff.Value, ctx.Capacity)
	case KindClearBad:
		z.RemoveTokens(board.TeamBad, z.BadTokens)
	}
}

func previewMessage(ctx *Context, count int) string {
	if ctx.UpcomingEvents == nil {
		return "No more events in the deck."
	}
	titles := ctx.UpcomingEvents(count)
	if len(titles) == 0 {
		return "No more events in the deck."
	}
	return fmt.Sprintf("Upcoming events: %s", strings.Join(titles, ", "))
}

// affectedTeam maps a removal kind to the side it removes; used by ordered
// multi-zone spreads to skip zones with nothing to remove.
func affectedTeam(k Kind) board.Team {
	switch k {
	case KindRemoveGood, KindKillGood, KindConvertGoodToBad:
		return board.TeamGood
	default:
		return board.TeamBad
	}
}

func spreadCount(eff Effect) int {
	if eff.SpreadCount <= 0 {
		return 1
	}
	return eff.SpreadCount
}
