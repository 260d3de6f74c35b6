package aggregator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
	"github.com/hqminh2201/evm-route-engine/internal/services/router"
)

// liquiditySource is the uniform adapter the best-route scorer fans out
// over: every source family answers the same quote(path, amount, mode)
// question or declines with nil.
type liquiditySource interface {
	Kind() domain.SourceKind
	Name() string
	Quote(ctx context.Context, path domain.Path, amount *big.Int, mode domain.TradeMode) *domain.RankedQuote
}

// v2Source wraps one V2 router behind the source interface.
type v2Source struct {
	chainID int64
	router  domain.RouterInfo
	client  chain.AmountsClient
	opts    router.QuoteOpts
}

func (s *v2Source) Kind() domain.SourceKind { return domain.SourceV2 }
func (s *v2Source) Name() string            { return s.router.Name }

func (s *v2Source) Quote(ctx context.Context, path domain.Path, amount *big.Int, mode domain.TradeMode) *domain.RankedQuote {
	c := router.QuoteRoute(ctx, s.client, s.chainID, s.router, path, amount, mode, s.opts)
	if c == nil {
		return nil
	}
	return &domain.RankedQuote{QuoteCandidate: *c, Source: domain.SourceV2}
}

// v3Source quotes one fee tier of a Uniswap-V3-style quoter. Single-pool
// quoters only answer direct paths.
type v3Source struct {
	chainID int64
	quoter  common.Address
	feeTier uint32
	client  chain.QuoterClient
	opts    router.QuoteOpts
}

func (s *v3Source) Kind() domain.SourceKind { return domain.SourceV3 }
func (s *v3Source) Name() string            { return fmt.Sprintf("V3-%d", s.feeTier) }

func (s *v3Source) Quote(ctx context.Context, path domain.Path, amount *big.Int, mode domain.TradeMode) *domain.RankedQuote {
	if !path.IsDirect() {
		return nil
	}
	in, out := path.First(), path.Last()
	rt := domain.RouterInfo{Name: s.Name(), Address: s.quoter}

	quoteIn := func(cctx context.Context, amountIn *big.Int) (*big.Int, error) {
		return s.client.QuoteExactInputSingle(cctx, s.chainID, s.quoter, in, out, s.feeTier, amountIn)
	}
	quoteOut := func(cctx context.Context, amountOut *big.Int) (*big.Int, error) {
		return s.client.QuoteExactOutputSingle(cctx, s.chainID, s.quoter, in, out, s.feeTier, amountOut)
	}

	c := quoteSinglePool(ctx, rt, path, amount, mode, s.opts, quoteIn, quoteOut)
	if c == nil {
		return nil
	}
	return &domain.RankedQuote{QuoteCandidate: *c, Source: domain.SourceV3, FeeTier: s.feeTier}
}

// algebraSource quotes an Algebra-style concentrated-liquidity quoter,
// which discovers its own fee per pool.
type algebraSource struct {
	chainID int64
	quoter  common.Address
	client  chain.QuoterClient
	opts    router.QuoteOpts
}

func (s *algebraSource) Kind() domain.SourceKind { return domain.SourceAlgebra }
func (s *algebraSource) Name() string            { return "Algebra" }

func (s *algebraSource) Quote(ctx context.Context, path domain.Path, amount *big.Int, mode domain.TradeMode) *domain.RankedQuote {
	if !path.IsDirect() {
		return nil
	}
	in, out := path.First(), path.Last()
	rt := domain.RouterInfo{Name: s.Name(), Address: s.quoter}

	quoteIn := func(cctx context.Context, amountIn *big.Int) (*big.Int, error) {
		return s.client.AlgebraQuoteExactInput(cctx, s.chainID, s.quoter, in, out, amountIn)
	}
	quoteOut := func(cctx context.Context, amountOut *big.Int) (*big.Int, error) {
		return s.client.AlgebraQuoteExactOutput(cctx, s.chainID, s.quoter, in, out, amountOut)
	}

	c := quoteSinglePool(ctx, rt, path, amount, mode, s.opts, quoteIn, quoteOut)
	if c == nil {
		return nil
	}
	return &domain.RankedQuote{QuoteCandidate: *c, Source: domain.SourceAlgebra}
}

// quoteSinglePool mirrors the V2 quoter's forward/reverse discipline over a
// single-pool quoter: exact-in derives the reverse price from the
// complementary exact-out read, exact-out verifies the discovered input
// round-trips to the target within tolerance.
func quoteSinglePool(
	ctx context.Context,
	rt domain.RouterInfo,
	path domain.Path,
	amount *big.Int,
	mode domain.TradeMode,
	opts router.QuoteOpts,
	quoteIn func(context.Context, *big.Int) (*big.Int, error),
	quoteOut func(context.Context, *big.Int) (*big.Int, error),
) *domain.QuoteCandidate {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}

	call := func(fn func(context.Context, *big.Int) (*big.Int, error), arg *big.Int) (*big.Int, bool) {
		cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		v, err := fn(cctx, arg)
		if err != nil || v == nil || v.Sign() <= 0 {
			return nil, false
		}
		return v, true
	}

	if mode == domain.ExactOut {
		amountIn, ok := call(quoteOut, amount)
		if !ok {
			return nil
		}
		verified, ok := call(quoteIn, amountIn)
		if !ok || !router.WithinTolerance(amount, verified, opts.ExactOutToleranceBps) {
			return nil
		}
		forward := router.ScaledPrice(verified, amountIn)
		reverse := router.ScaledPrice(amount, amountIn)
		c := router.BuildCandidate(rt, path, amountIn, amount, forward, reverse, opts.SpreadCeilingBps)
		if c != nil {
			// Stored in input-per-output units, same as the V2 quoter.
			c.ReversePrice = router.ScaledPrice(amountIn, amount)
		}
		return c
	}

	amountOut, ok := call(quoteIn, amount)
	if !ok {
		return nil
	}
	reverseIn, ok := call(quoteOut, amountOut)
	if !ok {
		return nil
	}
	forward := router.ScaledPrice(amountOut, amount)
	reverse := router.ScaledPrice(amountOut, reverseIn)
	return router.BuildCandidate(rt, path, amount, amountOut, forward, reverse, opts.SpreadCeilingBps)
}

// buildSources assembles the source list for one chain: every configured
// V2 router, one V3 source per fee tier when the chain has a V3 quoter,
// and an Algebra source when configured.
func (svc *Service) buildSources(ci *chain.ChainInfo, routers []domain.RouterInfo) []liquiditySource {
	opts := svc.quoteOpts()
	sources := make([]liquiditySource, 0, len(routers)+len(ci.V3FeeTiers)+1)
	for _, rt := range routers {
		sources = append(sources, &v2Source{chainID: ci.ID, router: rt, client: svc.amounts, opts: opts})
	}
	if ci.V3Quoter != (common.Address{}) {
		for _, tier := range ci.V3FeeTiers {
			sources = append(sources, &v3Source{chainID: ci.ID, quoter: ci.V3Quoter, feeTier: tier, client: svc.quoters, opts: opts})
		}
	}
	if ci.AlgebraQuoter != (common.Address{}) {
		sources = append(sources, &algebraSource{chainID: ci.ID, quoter: ci.AlgebraQuoter, client: svc.quoters, opts: opts})
	}
	return sources
}
