package router

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// directionalClient only has liquidity when the path starts from allowed
// tokens; everything else reverts.
type directionalClient struct {
	rate    int64
	allowed map[common.Address]bool
}

func (d *directionalClient) GetAmountsOut(ctx context.Context, chainID int64, router common.Address, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if !d.allowed[path[0]] {
		return nil, errors.New("execution reverted")
	}
	out := new(big.Int).Mul(amountIn, big.NewInt(d.rate))
	return []*big.Int{new(big.Int).Set(amountIn), out}, nil
}

func (d *directionalClient) GetAmountsIn(ctx context.Context, chainID int64, router common.Address, amountOut *big.Int, path []common.Address) ([]*big.Int, error) {
	return nil, errors.New("not used by the scanner")
}

// TestScanLiquidity checks pairs with one-way liquidity are reported as
// such and bidirectional pairs sort first.
func TestScanLiquidity(t *testing.T) {
	ci := mustChain(t, 97)
	wbnb := addrOf(t, ci, "WBNB")
	usdt := addrOf(t, ci, "USDT")

	client := &directionalClient{
		rate:    5,
		allowed: map[common.Address]bool{wbnb: true, usdt: true},
	}

	pairs := ScanLiquidity(context.Background(), client, ci, 100*time.Millisecond)
	if len(pairs) == 0 {
		t.Fatal("expected scanned pairs")
	}

	var sawBidirectional, sawOneWay bool
	for _, p := range pairs {
		if p.ForwardOut == nil && p.ReverseOut == nil {
			t.Errorf("pair %s/%s has no liquidity and should have been dropped", p.Base, p.Quote)
		}
		if p.Bidirectional != (p.ForwardOut != nil && p.ReverseOut != nil) {
			t.Errorf("pair %s/%s: bidirectional flag inconsistent", p.Base, p.Quote)
		}
		if p.Bidirectional {
			sawBidirectional = true
			if sawOneWay {
				t.Errorf("bidirectional pair %s/%s sorted after a one-way pair", p.Base, p.Quote)
			}
		} else {
			sawOneWay = true
		}
	}
	if !sawBidirectional {
		t.Error("WBNB/USDT should be bidirectional")
	}
	if !sawOneWay {
		t.Error("expected one-way pairs from the restricted client")
	}
}

// TestScanLiquidityEmpty checks a dead chain yields no pairs.
func TestScanLiquidityEmpty(t *testing.T) {
	ci := mustChain(t, 97)
	client := &directionalClient{rate: 5, allowed: nil}

	if pairs := ScanLiquidity(context.Background(), client, ci, 100*time.Millisecond); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
}
