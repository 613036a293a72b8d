package scoring

import (
	"strconv"
	"strings"

	"github.com/stavrosdim/hooprank/internal/domain/roster"
)

// Score computes a player's adjusted fantasy points. The captain
// multiplier applies before the bench halving, so a captained bench
// player is boosted first and halved second. Coaches (slot 11) score
// their base points untouched. Negative base points flow through the
// same arithmetic.
func Score(p roster.Player) float64 {
	pts := p.Points
	if p.IsCaptain {
		pts *= p.CaptainMultiplier
	}
	if p.OnBench() {
		pts /= 2
	}

	return pts
}

// Adjustment describes which modifiers Score applied to a player. The
// presentation layers derive their modifier columns from this so the
// displayed breakdown can never drift from the summed totals.
type Adjustment struct {
	CaptainApplied    bool
	CaptainMultiplier float64
	BenchApplied      bool
}

// Label renders the adjustment the way standings tables show it,
// e.g. "x2", "÷2", "x3 ÷2". No modifiers renders as "-".
func (a Adjustment) Label() string {
	var parts []string
	if a.CaptainApplied {
		parts = append(parts, "x"+strconv.FormatFloat(a.CaptainMultiplier, 'f', -1, 64))
	}
	if a.BenchApplied {
		parts = append(parts, "÷2")
	}
	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, " ")
}

// Adjustments reports the modifiers Score would apply to p.
func Adjustments(p roster.Player) Adjustment {
	return Adjustment{
		CaptainApplied:    p.IsCaptain,
		CaptainMultiplier: p.CaptainMultiplier,
		BenchApplied:      p.OnBench(),
	}
}
