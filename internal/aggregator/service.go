// Package aggregator is the top-level quoting entry point: it fans quote
// requests out across routers and liquidity sources, reduces the results
// to a single best candidate, and maintains the per-router quote cache.
package aggregator

import (
	"context"
	"sync"
	"time"

	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
	"github.com/hqminh2201/evm-route-engine/internal/config"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
	"github.com/hqminh2201/evm-route-engine/internal/metrics"
	"github.com/hqminh2201/evm-route-engine/internal/services"
	"github.com/hqminh2201/evm-route-engine/internal/services/router"
)

const AGGREGATOR_SERVICE = "aggregator-service"

type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	cfg      *config.AggregatorConfig
	registry *chain.Registry
	amounts  chain.AmountsClient
	quoters  chain.QuoterClient
	client   *chain.Client // owned connection pool, closed on Stop
	cache    *router.QuoteCache
}

func (svc *Service) ID() string {
	return AGGREGATOR_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	rpcCfg := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	svc.cfg = c.GetConfig(config.AGGREGATOR_CONFIG_KEY).(*config.AggregatorConfig)

	client, err := chain.NewClient(rpcCfg.URLs)
	if err != nil {
		return err
	}
	svc.client = client
	svc.amounts = client
	svc.quoters = client
	svc.registry = chain.Default()

	svc.cache, err = router.NewQuoteCache(
		svc.cfg.CacheSize,
		time.Duration(svc.cfg.CacheTTLSeconds)*time.Second,
		int64(svc.cfg.CacheToleranceBps),
		time.Now,
	)
	return err
}

func (svc *Service) Start() error {
	svc.logger.Info().
		Int("concurrency", svc.cfg.Concurrency).
		Int("cache_ttl_s", svc.cfg.CacheTTLSeconds).
		Msg("aggregator ready")
	return nil
}

func (svc *Service) Stop() error {
	if svc.client != nil {
		svc.client.Close()
	}
	return nil
}

func (svc *Service) quoteOpts() router.QuoteOpts {
	return router.QuoteOpts{
		Timeout:              time.Duration(svc.cfg.QuoteTimeoutMs) * time.Millisecond,
		SpreadCeilingBps:     float64(svc.cfg.SpreadCeilingBps),
		ExactOutToleranceBps: int64(svc.cfg.ExactOutToleranceBps),
	}
}

// resolve validates the request and computes routers and candidate paths,
// all before any network I/O.
func (svc *Service) resolve(req domain.QuoteRequest) (*chain.ChainInfo, []domain.RouterInfo, []domain.Path, error) {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, nil, nil, validationErrorf("amount must be a positive integer")
	}
	if req.TokenIn == req.TokenOut {
		return nil, nil, nil, validationErrorf("tokenIn and tokenOut must differ")
	}
	ci, err := svc.registry.Chain(req.ChainID)
	if err != nil {
		return nil, nil, nil, validationErrorf("unsupported chain %d", req.ChainID)
	}
	routers := ci.RoutersFiltered(svc.cfg.RouterBlacklist)
	if len(routers) == 0 {
		return nil, nil, nil, ErrNoRouters
	}
	paths := router.BuildCandidatePaths(ci, req.TokenIn, req.TokenOut, req.RoutesPool, req.MaxRoutes)
	if len(paths) == 0 {
		return nil, nil, nil, ErrNoPaths
	}
	metrics.PathsEnumerated.Observe(float64(len(paths)))
	return ci, routers, paths, nil
}

// QuoteAggregatedSwap finds the best V2 quote across all configured
// routers: bounded router fan-out, sequential path evaluation per router,
// per-router caching, two-stage best-of reduction.
func (svc *Service) QuoteAggregatedSwap(ctx context.Context, req domain.QuoteRequest) (*domain.QuoteCandidate, error) {
	start := time.Now()
	ci, routers, paths, err := svc.resolve(req)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(string(req.Mode), "rejected").Inc()
		return nil, err
	}

	bests := svc.fanOutRouters(ctx, ci, routers, paths, req)

	best := router.SelectBestQuote(bests, req.Mode)
	metrics.QuoteDuration.WithLabelValues(string(req.Mode)).Observe(time.Since(start).Seconds())
	if best == nil {
		metrics.QuoteRequests.WithLabelValues(string(req.Mode), "empty").Inc()
		return nil, ErrNoViableQuote
	}
	metrics.QuoteRequests.WithLabelValues(string(req.Mode), "ok").Inc()
	return best, nil
}

// fanOutRouters evaluates all routers under a fixed-size worker pool so a
// slow router cannot stall unrelated ones past its own per-call timeouts.
func (svc *Service) fanOutRouters(ctx context.Context, ci *chain.ChainInfo, routers []domain.RouterInfo, paths []domain.Path, req domain.QuoteRequest) []*domain.QuoteCandidate {
	workers := svc.cfg.Concurrency
	if workers > len(routers) {
		workers = len(routers)
	}

	jobs := make(chan domain.RouterInfo)
	var mu sync.Mutex
	var bests []*domain.QuoteCandidate
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rt := range jobs {
				if best := svc.quoteRouter(ctx, ci, rt, paths, req); best != nil {
					mu.Lock()
					bests = append(bests, best)
					mu.Unlock()
				}
			}
		}()
	}

	for _, rt := range routers {
		jobs <- rt
	}
	close(jobs)
	wg.Wait()
	return bests
}

// quoteRouter resolves one router's best quote, via the cache when a fresh
// entry within the amount-tolerance band exists. Paths are evaluated
// sequentially; a router with no viable quote has its cache entry dropped.
func (svc *Service) quoteRouter(ctx context.Context, ci *chain.ChainInfo, rt domain.RouterInfo, paths []domain.Path, req domain.QuoteRequest) *domain.QuoteCandidate {
	key := router.CacheKey(ci.ID, rt.Address, req.TokenIn, req.TokenOut, req.Mode)
	if hit := svc.cache.Get(key, req.Amount); hit != nil {
		return hit
	}

	opts := svc.quoteOpts()
	var candidates []*domain.QuoteCandidate
	for _, p := range paths {
		if c := router.QuoteRoute(ctx, svc.amounts, ci.ID, rt, p, req.Amount, req.Mode, opts); c != nil {
			candidates = append(candidates, c)
		}
	}

	best := router.SelectBestQuote(candidates, req.Mode)
	if best == nil {
		svc.cache.Delete(key)
		return nil
	}
	svc.cache.Put(key, req.Amount, req.Mode, best)
	return best
}

// ScanLiquidity probes the test chain's token table for pairs with direct
// V2 liquidity.
func (svc *Service) ScanLiquidity(ctx context.Context) ([]router.PairLiquidity, error) {
	ci, err := svc.registry.Chain(chain.TestChainID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	pairs := router.ScanLiquidity(ctx, svc.amounts, ci, time.Duration(svc.cfg.QuoteTimeoutMs)*time.Millisecond)
	metrics.ScanDuration.Set(time.Since(start).Seconds())
	metrics.ScanPairsFound.Set(float64(len(pairs)))
	return pairs, nil
}
