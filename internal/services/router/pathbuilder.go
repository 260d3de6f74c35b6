// Package router implements the swap-quote engine: candidate path
// enumeration, per-router quoting with forward/reverse consistency checks,
// best-quote selection, and the amount-tolerant quote cache.
package router

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

// DefaultMaxRoutes caps candidate path enumeration when the caller does not
// supply a bound.
const DefaultMaxRoutes = 30

// BuildCandidatePaths enumerates deduplicated candidate swap paths between
// tokenIn and tokenOut: the direct pair first, then one-bridge hops, then
// the ordered cross product of two-bridge hops, capped at maxRoutes.
// routesPool entries (symbols or raw addresses) extend the chain's fixed
// bridge set. Enumeration order decides which paths survive the cap, so
// coverage past the fixed bridges is best-effort.
func BuildCandidatePaths(ci *chain.ChainInfo, tokenIn, tokenOut common.Address, routesPool []string, maxRoutes int) []domain.Path {
	if maxRoutes <= 0 {
		maxRoutes = DefaultMaxRoutes
	}
	if tokenIn == tokenOut {
		return nil
	}

	bridges := ci.DefaultBridges()
	for _, hint := range routesPool {
		if addr, ok := ci.ResolveBridge(hint); ok {
			bridges = append(bridges, addr)
		}
	}

	seen := make(map[common.Address]struct{}, len(bridges))
	uniq := make([]common.Address, 0, len(bridges))
	for _, b := range bridges {
		if b == tokenIn || b == tokenOut {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		uniq = append(uniq, b)
	}

	paths := make([]domain.Path, 0, maxRoutes)
	known := make(map[string]struct{}, maxRoutes)

	add := func(tokens ...common.Address) bool {
		if len(paths) >= maxRoutes {
			return false
		}
		labels := make([]string, len(tokens))
		for i, t := range tokens {
			labels[i] = ci.SymbolFor(t)
		}
		p := domain.Path{Tokens: tokens, Labels: labels}
		if _, dup := known[p.Key()]; dup {
			return true
		}
		known[p.Key()] = struct{}{}
		paths = append(paths, p)
		return true
	}

	add(tokenIn, tokenOut)
	for _, b := range uniq {
		if !add(tokenIn, b, tokenOut) {
			return paths
		}
	}
	for _, b1 := range uniq {
		for _, b2 := range uniq {
			if b1 == b2 {
				continue
			}
			if !add(tokenIn, b1, b2, tokenOut) {
				return paths
			}
		}
	}
	return paths
}
