package router

import (
	"context"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
	"github.com/hqminh2201/evm-route-engine/internal/metrics"
)

// priceScale is the fixed-point scale for price ratios. Adequate for
// ranking candidates, not for settlement math.
const priceScale = 1_000_000_000

var priceScaleBig = big.NewInt(priceScale)

// QuoteOpts carries the per-call policy knobs of the router quoter.
type QuoteOpts struct {
	Timeout              time.Duration
	SpreadCeilingBps     float64
	ExactOutToleranceBps int64
}

func (o QuoteOpts) withDefaults() QuoteOpts {
	if o.Timeout <= 0 {
		o.Timeout = 1500 * time.Millisecond
	}
	if o.SpreadCeilingBps <= 0 {
		o.SpreadCeilingBps = 100
	}
	if o.ExactOutToleranceBps <= 0 {
		o.ExactOutToleranceBps = 100
	}
	return o
}

// ScaledPrice returns num/den through a 1e9 fixed-point ratio, 0 on any
// degenerate input.
func ScaledPrice(num, den *big.Int) float64 {
	if num == nil || den == nil || num.Sign() <= 0 || den.Sign() <= 0 {
		return 0
	}
	scaled := new(big.Int).Mul(num, priceScaleBig)
	n, overflow := uint256.FromBig(scaled)
	if !overflow {
		d, _ := uint256.FromBig(den)
		q := new(uint256.Int).Div(n, d)
		if q.IsUint64() {
			return float64(q.Uint64()) / priceScale
		}
	}
	// Ratio too large for the fixed-point fast path.
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(num), new(big.Float).SetInt(den)).Float64()
	return f
}

// WithinTolerance reports whether actual is within tolBps of target
// (absolute relative difference).
func WithinTolerance(target, actual *big.Int, tolBps int64) bool {
	if target == nil || actual == nil || target.Sign() <= 0 {
		return false
	}
	diff := new(big.Int).Sub(actual, target)
	diff.Abs(diff)
	diff.Mul(diff, big.NewInt(10000))
	bound := new(big.Int).Mul(target, big.NewInt(tolBps))
	return diff.Cmp(bound) <= 0
}

// BuildCandidate assembles a quote candidate from its two directional
// prices and validates it: both prices finite and positive, and the
// forward/reverse spread under the ceiling. Returns nil on rejection.
func BuildCandidate(rt domain.RouterInfo, path domain.Path, amountIn, amountOut *big.Int, forward, reverse, spreadCeilingBps float64) *domain.QuoteCandidate {
	if amountIn == nil || amountOut == nil || amountIn.Sign() <= 0 || amountOut.Sign() <= 0 {
		return nil
	}
	if forward <= 0 || reverse <= 0 ||
		math.IsInf(forward, 0) || math.IsInf(reverse, 0) ||
		math.IsNaN(forward) || math.IsNaN(reverse) {
		metrics.RouterQuoteDrops.WithLabelValues("bad_price").Inc()
		return nil
	}
	mid := math.Sqrt(forward * reverse)
	if mid <= 0 || math.IsNaN(mid) || math.IsInf(mid, 0) {
		metrics.RouterQuoteDrops.WithLabelValues("bad_price").Inc()
		return nil
	}
	spreadBps := math.Abs(forward-reverse) / mid * 10000
	if spreadBps > spreadCeilingBps {
		metrics.RouterQuoteDrops.WithLabelValues("spread").Inc()
		return nil
	}
	return &domain.QuoteCandidate{
		Router:       rt,
		Path:         path,
		AmountIn:     new(big.Int).Set(amountIn),
		AmountOut:    new(big.Int).Set(amountOut),
		ForwardPrice: forward,
		ReversePrice: reverse,
		MidPrice:     mid,
		SpreadBps:    spreadBps,
	}
}

// QuoteRoute evaluates one (router, path) pair in the requested mode. Every
// failure (RPC error, timeout, non-positive amount, spread above the
// ceiling, exact-out round-trip drift) collapses to nil: the candidate is
// dropped, never surfaced as an error.
func QuoteRoute(ctx context.Context, client chain.AmountsClient, chainID int64, rt domain.RouterInfo, path domain.Path, amount *big.Int, mode domain.TradeMode, opts QuoteOpts) *domain.QuoteCandidate {
	if len(path.Tokens) < 2 || amount == nil || amount.Sign() <= 0 {
		return nil
	}
	opts = opts.withDefaults()

	switch mode {
	case domain.ExactOut:
		return quoteExactOut(ctx, client, chainID, rt, path, amount, opts)
	default:
		return quoteExactIn(ctx, client, chainID, rt, path, amount, opts)
	}
}

func quoteExactIn(ctx context.Context, client chain.AmountsClient, chainID int64, rt domain.RouterInfo, path domain.Path, amountIn *big.Int, opts QuoteOpts) *domain.QuoteCandidate {
	outs, err := callAmountsOut(ctx, client, chainID, rt.Address, amountIn, path, opts.Timeout)
	if err != nil {
		dropDebug(rt, path, "getAmountsOut", err)
		return nil
	}
	amountOut := outs[len(outs)-1]
	if amountOut == nil || amountOut.Sign() <= 0 {
		metrics.RouterQuoteDrops.WithLabelValues("zero_amount").Inc()
		return nil
	}

	// Second leg discovers how much input the path would demand to produce
	// exactly amountOut; disagreement with the first leg shows up as spread.
	ins, err := callAmountsIn(ctx, client, chainID, rt.Address, amountOut, path, opts.Timeout)
	if err != nil {
		dropDebug(rt, path, "getAmountsIn", err)
		return nil
	}
	reverseIn := ins[0]
	if reverseIn == nil || reverseIn.Sign() <= 0 {
		metrics.RouterQuoteDrops.WithLabelValues("zero_amount").Inc()
		return nil
	}

	forward := ScaledPrice(amountOut, amountIn)
	reverse := ScaledPrice(amountOut, reverseIn)
	return BuildCandidate(rt, path, amountIn, amountOut, forward, reverse, opts.SpreadCeilingBps)
}

func quoteExactOut(ctx context.Context, client chain.AmountsClient, chainID int64, rt domain.RouterInfo, path domain.Path, target *big.Int, opts QuoteOpts) *domain.QuoteCandidate {
	ins, err := callAmountsIn(ctx, client, chainID, rt.Address, target, path, opts.Timeout)
	if err != nil {
		dropDebug(rt, path, "getAmountsIn", err)
		return nil
	}
	amountIn := ins[0]
	if amountIn == nil || amountIn.Sign() <= 0 {
		metrics.RouterQuoteDrops.WithLabelValues("zero_amount").Inc()
		return nil
	}

	// Round-trip verification: the discovered input must reproduce the
	// target output, or the pool state shifted between the two reads.
	outs, err := callAmountsOut(ctx, client, chainID, rt.Address, amountIn, path, opts.Timeout)
	if err != nil {
		dropDebug(rt, path, "getAmountsOut", err)
		return nil
	}
	verified := outs[len(outs)-1]
	if !WithinTolerance(target, verified, opts.ExactOutToleranceBps) {
		metrics.RouterQuoteDrops.WithLabelValues("roundtrip").Inc()
		return nil
	}

	forward := ScaledPrice(verified, amountIn)
	reverse := ScaledPrice(target, amountIn)
	c := BuildCandidate(rt, path, amountIn, target, forward, reverse, opts.SpreadCeilingBps)
	if c != nil {
		// Exact-out candidates are ranked by input required per unit
		// output, so the stored reverse price is the inverted ratio. The
		// spread check above still ran on same-unit prices.
		c.ReversePrice = ScaledPrice(amountIn, target)
	}
	return c
}

func callAmountsOut(ctx context.Context, client chain.AmountsClient, chainID int64, router common.Address, amountIn *big.Int, path domain.Path, timeout time.Duration) ([]*big.Int, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.GetAmountsOut(cctx, chainID, router, amountIn, path.Tokens)
}

func callAmountsIn(ctx context.Context, client chain.AmountsClient, chainID int64, router common.Address, amountOut *big.Int, path domain.Path, timeout time.Duration) ([]*big.Int, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.GetAmountsIn(cctx, chainID, router, amountOut, path.Tokens)
}

func dropDebug(rt domain.RouterInfo, path domain.Path, call string, err error) {
	metrics.RouterQuoteDrops.WithLabelValues("rpc").Inc()
	log.Debug().
		Str("router", rt.Name).
		Str("path", path.Key()).
		Str("call", call).
		Err(err).
		Msg("quote candidate dropped")
}
