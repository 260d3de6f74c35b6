package aggregator

import (
	"math"
	"math/big"
	"strings"

	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

// scoreBase is the raw ranking quantity before penalties: the output amount
// for exact-in, the scaled reciprocal of the required input for exact-out
// (cheaper input ranks higher while penalties stay multiplicative).
func scoreBase(q *domain.QuoteCandidate, mode domain.TradeMode) float64 {
	if mode == domain.ExactOut {
		in := bigFloat(q.AmountIn)
		if in <= 0 {
			return 0
		}
		return 1e18 / in
	}
	return bigFloat(q.AmountOut)
}

// applyPenaltyBps shaves bps off the score multiplicatively.
func applyPenaltyBps(score float64, bps int) float64 {
	return score * float64(10000-bps) / 10000
}

// bonusMultiplier converts a preference bonus in bps to a multiplier.
func bonusMultiplier(bps int) float64 {
	return float64(10000+bps) / 10000
}

// confidenceBps is the relative score gap between the two top candidates.
func confidenceBps(top, second float64) float64 {
	if top <= 0 {
		return 0
	}
	return (top - second) / top * 10000
}

// meetsMinLiquidity rejects economically meaningless quotes: the
// decimal-normalized output must be at least minBps of the normalized
// input. Guards against near-empty pools that still answer with a
// technically valid number.
func meetsMinLiquidity(amountIn, amountOut *big.Int, decIn, decOut uint8, minBps int) bool {
	if minBps <= 0 {
		return true
	}
	in := bigFloat(amountIn) / math.Pow10(int(decIn))
	out := bigFloat(amountOut) / math.Pow10(int(decOut))
	if in <= 0 || out <= 0 {
		return false
	}
	return out >= in*float64(minBps)/10000
}

// isPreferredRouter does a case-insensitive substring match of the
// configured pattern against a router name.
func isPreferredRouter(name, pattern string) bool {
	if pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}

func bigFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
