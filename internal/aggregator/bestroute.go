package aggregator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
	"github.com/hqminh2201/evm-route-engine/internal/metrics"
)

// minBestRouteBudget floors the global fan-out budget.
const minBestRouteBudget = 2 * time.Second

// BestRoute is the scored superset of QuoteAggregatedSwap: it blends V2
// routers with the chain's concentrated-liquidity quoters, filters out
// near-zero-liquidity candidates, applies the platform fee, gas penalty and
// optional preferred-router bonus, and reports the score gap between the
// two best candidates. The whole fan-out races a global wall-clock budget;
// whatever accumulated by the deadline is ranked (partial results beat
// total failure).
func (svc *Service) BestRoute(ctx context.Context, req domain.BestRouteRequest) (*domain.BestRouteResult, error) {
	ci, routers, paths, err := svc.resolve(req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	budget := 2 * time.Duration(svc.cfg.QuoteTimeoutMs) * time.Millisecond
	if budget < minBestRouteBudget {
		budget = minBestRouteBudget
	}
	bctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	ranked := svc.fanOutSources(bctx, ci, svc.buildSources(ci, routers), paths, req.QuoteRequest)
	metrics.BestRouteCandidates.Observe(float64(len(ranked)))
	if len(ranked) == 0 {
		return nil, ErrNoViableQuote
	}

	for _, q := range ranked {
		score := scoreBase(&q.QuoteCandidate, req.Mode)
		score = applyPenaltyBps(score, svc.cfg.PlatformFeeBps)
		score = applyPenaltyBps(score, svc.cfg.GasPenaltyBps)
		if req.PreferRouter && svc.cfg.PreferRouterEnabled &&
			q.Source == domain.SourceV2 &&
			isPreferredRouter(q.Router.Name, svc.cfg.PreferredRouterPattern) {
			score *= bonusMultiplier(svc.cfg.PreferredRouterBonusBps)
		}
		q.Score = score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	result := &domain.BestRouteResult{
		Best:      *ranked[0],
		Evaluated: len(ranked),
	}
	if len(ranked) > 1 {
		result.ConfidenceBps = confidenceBps(ranked[0].Score, ranked[1].Score)
	}
	metrics.BestRouteConfidence.Observe(result.ConfidenceBps)
	return result, nil
}

// fanOutSources evaluates every (source, path) combination under the
// worker pool. Single-pool sources decline multi-hop paths themselves, so
// only direct paths are queued for them.
func (svc *Service) fanOutSources(ctx context.Context, ci *chain.ChainInfo, sources []liquiditySource, paths []domain.Path, req domain.QuoteRequest) []*domain.RankedQuote {
	type job struct {
		src  liquiditySource
		path domain.Path
	}

	var queue []job
	for _, src := range sources {
		for _, p := range paths {
			if src.Kind() != domain.SourceV2 && !p.IsDirect() {
				continue
			}
			queue = append(queue, job{src: src, path: p})
		}
	}

	workers := svc.cfg.Concurrency
	if workers > len(queue) {
		workers = len(queue)
	}

	decIn, decOut := svc.pairDecimals(ci, req)

	jobs := make(chan job)
	var mu sync.Mutex
	var ranked []*domain.RankedQuote
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					continue // budget spent, drain remaining jobs
				}
				q := j.src.Quote(ctx, j.path, req.Amount, req.Mode)
				if q == nil {
					continue
				}
				if !meetsMinLiquidity(q.AmountIn, q.AmountOut, decIn, decOut, svc.cfg.MinLiquidityBps) {
					metrics.RouterQuoteDrops.WithLabelValues("min_liquidity").Inc()
					continue
				}
				mu.Lock()
				ranked = append(ranked, q)
				mu.Unlock()
			}
		}()
	}

	for _, j := range queue {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	return ranked
}

// pairDecimals looks up the traded pair's decimals, defaulting to 18 for
// tokens outside the static table.
func (svc *Service) pairDecimals(ci *chain.ChainInfo, req domain.QuoteRequest) (uint8, uint8) {
	decIn, decOut := uint8(18), uint8(18)
	if t, ok := ci.TokenByAddress(req.TokenIn); ok {
		decIn = t.Decimals
	}
	if t, ok := ci.TokenByAddress(req.TokenOut); ok {
		decOut = t.Decimals
	}
	return decIn, decOut
}
