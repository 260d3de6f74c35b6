package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TradeMode fixes which side of the trade is exact.
type TradeMode string

const (
	// ExactIn fixes the input amount; the engine maximizes output.
	ExactIn TradeMode = "exact-in"
	// ExactOut fixes the output amount; the engine minimizes required input.
	ExactOut TradeMode = "exact-out"
)

func ParseTradeMode(s string) (TradeMode, error) {
	switch TradeMode(s) {
	case ExactIn:
		return ExactIn, nil
	case ExactOut:
		return ExactOut, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ExactIn, ExactOut)
	}
}

// QuoteRequest is the aggregation entry-point input. Amount is in smallest
// token units and is interpreted per Mode.
type QuoteRequest struct {
	ChainID    int64
	TokenIn    common.Address
	TokenOut   common.Address
	Amount     *big.Int
	Mode       TradeMode
	RoutesPool []string
	MaxRoutes  int
}

// BestRouteRequest extends QuoteRequest with the opt-in preferred-router
// bonus used by the scoring stage.
type BestRouteRequest struct {
	QuoteRequest
	PreferRouter bool
}
