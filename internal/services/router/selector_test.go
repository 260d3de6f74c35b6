package router

import (
	"math/big"
	"testing"

	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

func candidate(router string, forward, reverse float64) *domain.QuoteCandidate {
	return &domain.QuoteCandidate{
		Router:       domain.RouterInfo{Name: router},
		AmountIn:     big.NewInt(1),
		AmountOut:    big.NewInt(1),
		ForwardPrice: forward,
		ReversePrice: reverse,
	}
}

// TestSelectBestQuoteExactIn checks the highest forward price wins.
func TestSelectBestQuoteExactIn(t *testing.T) {
	quotes := []*domain.QuoteCandidate{
		candidate("A", 4.9, 4.9),
		candidate("B", 5.1, 5.1),
		candidate("C", 5.0, 5.0),
	}
	best := SelectBestQuote(quotes, domain.ExactIn)
	if best == nil || best.Router.Name != "B" {
		t.Fatalf("best = %+v, want router B", best)
	}
}

// TestSelectBestQuoteExactOut checks the lowest reverse price wins.
func TestSelectBestQuoteExactOut(t *testing.T) {
	quotes := []*domain.QuoteCandidate{
		candidate("A", 5.0, 5.2),
		candidate("B", 5.0, 4.8),
		candidate("C", 5.0, 5.0),
	}
	best := SelectBestQuote(quotes, domain.ExactOut)
	if best == nil || best.Router.Name != "B" {
		t.Fatalf("best = %+v, want router B", best)
	}
}

// TestSelectBestQuoteTieKeepsFirst checks the deterministic tie-break.
func TestSelectBestQuoteTieKeepsFirst(t *testing.T) {
	quotes := []*domain.QuoteCandidate{
		candidate("first", 5.0, 5.0),
		candidate("second", 5.0, 5.0),
	}
	if best := SelectBestQuote(quotes, domain.ExactIn); best.Router.Name != "first" {
		t.Errorf("exact-in tie picked %s, want first", best.Router.Name)
	}
	if best := SelectBestQuote(quotes, domain.ExactOut); best.Router.Name != "first" {
		t.Errorf("exact-out tie picked %s, want first", best.Router.Name)
	}
}

// TestSelectBestQuoteEmpty checks empty and all-nil inputs return nil.
func TestSelectBestQuoteEmpty(t *testing.T) {
	if best := SelectBestQuote(nil, domain.ExactIn); best != nil {
		t.Errorf("nil input: got %+v", best)
	}
	if best := SelectBestQuote([]*domain.QuoteCandidate{nil, nil}, domain.ExactIn); best != nil {
		t.Errorf("all-nil input: got %+v", best)
	}
}

// TestSelectBestQuoteSkipsNil checks nil entries between real candidates
// are ignored.
func TestSelectBestQuoteSkipsNil(t *testing.T) {
	quotes := []*domain.QuoteCandidate{
		nil,
		candidate("A", 5.0, 5.0),
		nil,
		candidate("B", 6.0, 6.0),
	}
	if best := SelectBestQuote(quotes, domain.ExactIn); best == nil || best.Router.Name != "B" {
		t.Fatalf("best = %+v, want router B", best)
	}
}
