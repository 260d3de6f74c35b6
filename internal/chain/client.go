package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// AmountsClient executes the two complementary V2 router reads. A valid
// response has one amount per path entry; callers read the first/last slot.
type AmountsClient interface {
	GetAmountsOut(ctx context.Context, chainID int64, router common.Address, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
	GetAmountsIn(ctx context.Context, chainID int64, router common.Address, amountOut *big.Int, path []common.Address) ([]*big.Int, error)
}

// QuoterClient executes single-pool reads against concentrated-liquidity
// quoters: a Uniswap-V3-style quoter per fee tier, and an Algebra-style
// quoter without tiers.
type QuoterClient interface {
	QuoteExactInputSingle(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier uint32, amountIn *big.Int) (*big.Int, error)
	QuoteExactOutputSingle(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier uint32, amountOut *big.Int) (*big.Int, error)
	AlgebraQuoteExactInput(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error)
	AlgebraQuoteExactOutput(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, amountOut *big.Int) (*big.Int, error)
}

// Client is the production AmountsClient/QuoterClient over go-ethereum.
// Connections are dialed lazily, one per chain, and reused.
type Client struct {
	mu    sync.Mutex
	urls  map[int64]string
	conns map[int64]*ethclient.Client

	routerABI  abi.ABI
	quoterABI  abi.ABI
	algebraABI abi.ABI
}

func NewClient(urls map[int64]string) (*Client, error) {
	routerABI, err := abi.JSON(strings.NewReader(v2RouterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse v2 router abi: %w", err)
	}
	quoterABI, err := abi.JSON(strings.NewReader(v3QuoterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse v3 quoter abi: %w", err)
	}
	algebraABI, err := abi.JSON(strings.NewReader(algebraQuoterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse algebra quoter abi: %w", err)
	}
	return &Client{
		urls:       urls,
		conns:      make(map[int64]*ethclient.Client),
		routerABI:  routerABI,
		quoterABI:  quoterABI,
		algebraABI: algebraABI,
	}, nil
}

func (c *Client) conn(chainID int64) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if conn, ok := c.conns[chainID]; ok {
		return conn, nil
	}
	url, ok := c.urls[chainID]
	if !ok || url == "" {
		return nil, fmt.Errorf("no rpc url configured for chain %d", chainID)
	}
	conn, err := ethclient.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial chain %d: %w", chainID, err)
	}
	c.conns[chainID] = conn
	return conn, nil
}

// Close releases all dialed connections.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, conn := range c.conns {
		conn.Close()
		delete(c.conns, id)
	}
}

func (c *Client) call(ctx context.Context, chainID int64, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	conn, err := c.conn(chainID)
	if err != nil {
		return nil, err
	}
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := conn.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", method, to.Hex(), err)
	}
	out, err := contractABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

func (c *Client) amounts(ctx context.Context, chainID int64, router common.Address, method string, amount *big.Int, path []common.Address) ([]*big.Int, error) {
	out, err := c.call(ctx, chainID, router, c.routerABI, method, amount, path)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s: unexpected output arity %d", method, len(out))
	}
	amounts, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected output type %T", method, out[0])
	}
	if len(amounts) != len(path) {
		return nil, fmt.Errorf("%s: got %d amounts for %d-token path", method, len(amounts), len(path))
	}
	return amounts, nil
}

func (c *Client) GetAmountsOut(ctx context.Context, chainID int64, router common.Address, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	return c.amounts(ctx, chainID, router, "getAmountsOut", amountIn, path)
}

func (c *Client) GetAmountsIn(ctx context.Context, chainID int64, router common.Address, amountOut *big.Int, path []common.Address) ([]*big.Int, error) {
	return c.amounts(ctx, chainID, router, "getAmountsIn", amountOut, path)
}

func firstBigInt(method string, out []interface{}) (*big.Int, error) {
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty output", method)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected output type %T", method, out[0])
	}
	return v, nil
}

func (c *Client) QuoteExactInputSingle(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier uint32, amountIn *big.Int) (*big.Int, error) {
	out, err := c.call(ctx, chainID, quoter, c.quoterABI, "quoteExactInputSingle",
		tokenIn, tokenOut, big.NewInt(int64(feeTier)), amountIn, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	return firstBigInt("quoteExactInputSingle", out)
}

func (c *Client) QuoteExactOutputSingle(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier uint32, amountOut *big.Int) (*big.Int, error) {
	out, err := c.call(ctx, chainID, quoter, c.quoterABI, "quoteExactOutputSingle",
		tokenIn, tokenOut, big.NewInt(int64(feeTier)), amountOut, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	return firstBigInt("quoteExactOutputSingle", out)
}

func (c *Client) AlgebraQuoteExactInput(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	out, err := c.call(ctx, chainID, quoter, c.algebraABI, "quoteExactInputSingle",
		tokenIn, tokenOut, amountIn, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	return firstBigInt("quoteExactInputSingle", out)
}

func (c *Client) AlgebraQuoteExactOutput(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, amountOut *big.Int) (*big.Int, error) {
	out, err := c.call(ctx, chainID, quoter, c.algebraABI, "quoteExactOutputSingle",
		tokenIn, tokenOut, amountOut, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	return firstBigInt("quoteExactOutputSingle", out)
}
