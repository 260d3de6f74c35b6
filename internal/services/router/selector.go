package router

import (
	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

// SelectBestQuote reduces same-mode candidates to the single best: highest
// forward price for exact-in, lowest reverse price for exact-out. Ties keep
// the first-encountered candidate. Empty input returns nil.
func SelectBestQuote(quotes []*domain.QuoteCandidate, mode domain.TradeMode) *domain.QuoteCandidate {
	var best *domain.QuoteCandidate
	for _, q := range quotes {
		if q == nil {
			continue
		}
		if best == nil {
			best = q
			continue
		}
		if mode == domain.ExactOut {
			if q.ReversePrice < best.ReversePrice {
				best = q
			}
		} else if q.ForwardPrice > best.ForwardPrice {
			best = q
		}
	}
	return best
}
