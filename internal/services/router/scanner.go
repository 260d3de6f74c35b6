package router

import (
	"context"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

// PairLiquidity is one probed token pair of a liquidity scan. ForwardOut is
// the output for one whole base token, ReverseOut for one whole quote
// token; a nil value means no liquidity in that direction.
type PairLiquidity struct {
	Base          string
	Quote         string
	BaseAddress   common.Address
	QuoteAddress  common.Address
	ForwardOut    *big.Int
	ReverseOut    *big.Int
	Bidirectional bool
}

// ScanLiquidity probes every unordered symbol pair of the chain's token
// table bidirectionally with a one-token direct quote against each
// configured V2 router, keeping the best output seen per direction. Pairs
// with no liquidity in either direction are dropped. Results sort
// bidirectional pairs first, then by forward output descending.
func ScanLiquidity(ctx context.Context, client chain.AmountsClient, ci *chain.ChainInfo, timeout time.Duration) []PairLiquidity {
	symbols := make([]string, 0, len(ci.Tokens))
	for sym := range ci.Tokens {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var out []PairLiquidity
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			base, _ := ci.TokenBySymbol(symbols[i])
			quote, _ := ci.TokenBySymbol(symbols[j])

			fwd := probePair(ctx, client, ci, base, quote, timeout)
			rev := probePair(ctx, client, ci, quote, base, timeout)
			if fwd == nil && rev == nil {
				continue
			}
			out = append(out, PairLiquidity{
				Base:          base.Symbol,
				Quote:         quote.Symbol,
				BaseAddress:   base.Address,
				QuoteAddress:  quote.Address,
				ForwardOut:    fwd,
				ReverseOut:    rev,
				Bidirectional: fwd != nil && rev != nil,
			})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Bidirectional != out[b].Bidirectional {
			return out[a].Bidirectional
		}
		return cmpBig(out[a].ForwardOut, out[b].ForwardOut) > 0
	})
	return out
}

// probePair returns the best one-token output across the chain's routers,
// nil when no router shows liquidity.
func probePair(ctx context.Context, client chain.AmountsClient, ci *chain.ChainInfo, from, to domain.Token, timeout time.Duration) *big.Int {
	oneUnit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(from.Decimals)), nil)
	path := []common.Address{from.Address, to.Address}

	var best *big.Int
	for _, rt := range ci.Routers {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		amounts, err := client.GetAmountsOut(cctx, ci.ID, rt.Address, oneUnit, path)
		cancel()
		if err != nil || len(amounts) == 0 {
			continue
		}
		got := amounts[len(amounts)-1]
		if got == nil || got.Sign() <= 0 {
			continue
		}
		if best == nil || got.Cmp(best) > 0 {
			best = got
		}
	}
	return best
}

func cmpBig(a, b *big.Int) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return a.Cmp(b)
}
