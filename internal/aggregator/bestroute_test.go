package aggregator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

// TestBestRouteBlendsSources checks a V3 tier with a better rate beats
// every V2 router and the result carries the tier.
func TestBestRouteBlendsSources(t *testing.T) {
	reg := chain.NewRegistry()
	nums := make(map[common.Address]int64)
	for _, addr := range bscRouters(t, reg) {
		nums[addr] = 5000
	}
	client := &mockChainClient{
		den:       1000,
		routerNum: nums,
		v3Num:     map[uint32]int64{500: 6000}, // other tiers have no pool
	}
	svc := newTestService(t, client, reg, nil)

	result, err := svc.BestRoute(context.Background(), domain.BestRouteRequest{
		QuoteRequest: bscRequest(t, reg, oneToken, domain.ExactIn),
	})
	if err != nil {
		t.Fatalf("BestRoute: %v", err)
	}
	if result.Best.Source != domain.SourceV3 {
		t.Errorf("winner source = %s, want v3", result.Best.Source)
	}
	if result.Best.FeeTier != 500 {
		t.Errorf("winner tier = %d, want 500", result.Best.FeeTier)
	}
	if result.Evaluated < 5 {
		t.Errorf("evaluated = %d, want the four routers plus the tier", result.Evaluated)
	}
	if result.ConfidenceBps <= 0 {
		t.Errorf("confidence = %v bps, want positive with a clear winner", result.ConfidenceBps)
	}
}

// TestBestRouteScorePenalties checks the platform fee and gas penalty are
// multiplicative on the raw output.
func TestBestRouteScorePenalties(t *testing.T) {
	reg := chain.NewRegistry()
	nums := make(map[common.Address]int64)
	for _, addr := range bscRouters(t, reg) {
		nums[addr] = 5000
	}
	cfg := testConfig()
	cfg.PlatformFeeBps = 30
	cfg.GasPenaltyBps = 10
	svc := newTestService(t, &mockChainClient{den: 1000, routerNum: nums}, reg, cfg)

	result, err := svc.BestRoute(context.Background(), domain.BestRouteRequest{
		QuoteRequest: bscRequest(t, reg, oneToken, domain.ExactIn),
	})
	if err != nil {
		t.Fatalf("BestRoute: %v", err)
	}

	rawOut, _ := new(big.Float).SetInt(result.Best.AmountOut).Float64()
	want := rawOut * 0.997 * 0.999
	if got := result.Best.Score; got < want*0.999999 || got > want*1.000001 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

// TestBestRoutePreferredRouterBonus checks the opt-in bonus flips a close
// race toward the configured router, and only when the caller opts in.
func TestBestRoutePreferredRouterBonus(t *testing.T) {
	reg := chain.NewRegistry()
	routers := bscRouters(t, reg)
	client := &mockChainClient{
		den: 1000,
		routerNum: map[common.Address]int64{
			routers["PancakeSwap"]: 5000,
			routers["Biswap"]:      5010, // slightly better without the bonus
			routers["ApeSwap"]:     4000,
			routers["BakerySwap"]:  3000,
		},
	}
	cfg := testConfig()
	cfg.PreferRouterEnabled = true
	cfg.PreferredRouterPattern = "pancake"
	cfg.PreferredRouterBonusBps = 100
	svc := newTestService(t, client, reg, cfg)

	req := domain.BestRouteRequest{
		QuoteRequest: bscRequest(t, reg, oneToken, domain.ExactIn),
	}

	result, err := svc.BestRoute(context.Background(), req)
	if err != nil {
		t.Fatalf("without opt-in: %v", err)
	}
	if result.Best.Router.Name != "Biswap" {
		t.Errorf("without opt-in winner = %s, want Biswap", result.Best.Router.Name)
	}

	req.PreferRouter = true
	result, err = svc.BestRoute(context.Background(), req)
	if err != nil {
		t.Fatalf("with opt-in: %v", err)
	}
	if result.Best.Router.Name != "PancakeSwap" {
		t.Errorf("with opt-in winner = %s, want PancakeSwap", result.Best.Router.Name)
	}
}

// TestBestRouteMinLiquidityFilter checks economically meaningless quotes
// are filtered even though the plain aggregation accepts them.
func TestBestRouteMinLiquidityFilter(t *testing.T) {
	reg := chain.NewRegistry()
	nums := make(map[common.Address]int64)
	for _, addr := range bscRouters(t, reg) {
		nums[addr] = 1 // out/in ratio 1e-7, far below 0.01% of input
	}
	client := &mockChainClient{den: 10_000_000, routerNum: nums}
	svc := newTestService(t, client, reg, nil)

	req := bscRequest(t, reg, oneToken, domain.ExactIn)

	if _, err := svc.QuoteAggregatedSwap(context.Background(), req); err != nil {
		t.Fatalf("plain aggregation should accept the thin quote: %v", err)
	}

	_, err := svc.BestRoute(context.Background(), domain.BestRouteRequest{QuoteRequest: req})
	if !errors.Is(err, ErrNoViableQuote) {
		t.Errorf("err = %v, want ErrNoViableQuote after the liquidity filter", err)
	}
}

// TestBestRouteSingleCandidateConfidence checks a lone candidate reports
// zero confidence rather than a fabricated gap.
func TestBestRouteSingleCandidateConfidence(t *testing.T) {
	reg := chain.NewRegistry()
	ci, err := reg.Chain(chain.TestChainID)
	if err != nil {
		t.Fatal(err)
	}
	nums := map[common.Address]int64{ci.Routers[0].Address: 5000}
	svc := newTestService(t, &mockChainClient{den: 1000, routerNum: nums}, reg, nil)

	usdc, _ := ci.TokenBySymbol("USDC")
	wbnb, _ := ci.TokenBySymbol("WBNB")
	result, err := svc.BestRoute(context.Background(), domain.BestRouteRequest{
		QuoteRequest: domain.QuoteRequest{
			ChainID:  chain.TestChainID,
			TokenIn:  usdc.Address,
			TokenOut: wbnb.Address,
			Amount:   oneToken,
			Mode:     domain.ExactIn,
		},
	})
	if err != nil {
		t.Fatalf("BestRoute: %v", err)
	}
	if result.Evaluated < 1 {
		t.Fatalf("evaluated = %d", result.Evaluated)
	}
	if result.Evaluated == 1 && result.ConfidenceBps != 0 {
		t.Errorf("confidence = %v bps with a single candidate, want 0", result.ConfidenceBps)
	}
}

// TestScoreHelpers covers the scoring arithmetic directly.
func TestScoreHelpers(t *testing.T) {
	if got := applyPenaltyBps(10000, 30); got != 9970 {
		t.Errorf("applyPenaltyBps(10000, 30) = %v, want 9970", got)
	}
	if got := bonusMultiplier(100); got != 1.01 {
		t.Errorf("bonusMultiplier(100) = %v, want 1.01", got)
	}
	if got := confidenceBps(110, 100); got < 909 || got > 910 {
		t.Errorf("confidenceBps(110, 100) = %v, want ~909", got)
	}
	if got := confidenceBps(0, 0); got != 0 {
		t.Errorf("confidenceBps(0, 0) = %v, want 0", got)
	}

	q := &domain.QuoteCandidate{AmountIn: big.NewInt(2), AmountOut: big.NewInt(10)}
	if got := scoreBase(q, domain.ExactIn); got != 10 {
		t.Errorf("exact-in scoreBase = %v, want 10", got)
	}
	// Exact-out ranks by reciprocal input: less input scores higher.
	cheap := &domain.QuoteCandidate{AmountIn: big.NewInt(2), AmountOut: big.NewInt(10)}
	dear := &domain.QuoteCandidate{AmountIn: big.NewInt(4), AmountOut: big.NewInt(10)}
	if scoreBase(cheap, domain.ExactOut) <= scoreBase(dear, domain.ExactOut) {
		t.Error("exact-out scoreBase should rank the cheaper input higher")
	}

	if !meetsMinLiquidity(big.NewInt(1e18), big.NewInt(1e15), 18, 18, 1) {
		t.Error("0.1% output should pass a 0.01% floor")
	}
	if meetsMinLiquidity(big.NewInt(1e18), big.NewInt(1e13), 18, 18, 1) {
		t.Error("0.001% output should fail a 0.01% floor")
	}
	if !meetsMinLiquidity(big.NewInt(1e18), big.NewInt(1), 18, 18, 0) {
		t.Error("a zero floor disables the filter")
	}

	if !isPreferredRouter("PancakeSwap", "pancake") {
		t.Error("substring match should be case-insensitive")
	}
	if isPreferredRouter("Biswap", "pancake") {
		t.Error("non-matching name preferred")
	}
	if isPreferredRouter("PancakeSwap", "") {
		t.Error("empty pattern must never match")
	}
}
