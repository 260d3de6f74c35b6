package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token is one entry of a chain's static token table.
type Token struct {
	Symbol   string
	Address  common.Address
	Decimals uint8
}

// RouterInfo identifies an on-chain V2-style router contract.
type RouterInfo struct {
	Name    string
	Address common.Address
}

// Path is an ordered chain of 2-4 token addresses for a multi-hop swap.
// Labels carry the matching token symbols and are diagnostic only.
type Path struct {
	Tokens []common.Address
	Labels []string
}

// Key returns the normalized lowercase address sequence used for dedup.
func (p Path) Key() string {
	parts := make([]string, len(p.Tokens))
	for i, t := range p.Tokens {
		parts[i] = strings.ToLower(t.Hex())
	}
	return strings.Join(parts, ">")
}

func (p Path) Hops() int {
	if len(p.Tokens) < 2 {
		return 0
	}
	return len(p.Tokens) - 1
}

func (p Path) First() common.Address { return p.Tokens[0] }
func (p Path) Last() common.Address  { return p.Tokens[len(p.Tokens)-1] }

// IsDirect reports whether the path has no intermediate bridge token.
func (p Path) IsDirect() bool { return len(p.Tokens) == 2 }

// QuoteCandidate is one evaluated (router, path) quote. Built once by the
// router quoter, never mutated afterwards.
type QuoteCandidate struct {
	Router       RouterInfo
	Path         Path
	AmountIn     *big.Int
	AmountOut    *big.Int
	ForwardPrice float64
	ReversePrice float64
	MidPrice     float64
	SpreadBps    float64
}

// SourceKind names the liquidity source family a ranked quote came from.
type SourceKind string

const (
	SourceV2      SourceKind = "v2"
	SourceV3      SourceKind = "v3"
	SourceAlgebra SourceKind = "algebra"
)

// RankedQuote is a quote candidate annotated by the best-route scorer.
type RankedQuote struct {
	QuoteCandidate
	Source  SourceKind
	FeeTier uint32 // set for v3 candidates only
	Score   float64
}

// BestRouteResult is the scorer output: the winning candidate plus the
// relative score gap to the runner-up.
type BestRouteResult struct {
	Best          RankedQuote
	ConfidenceBps float64
	Evaluated     int
}
