// Package chain holds the static per-chain configuration (token tables,
// router descriptors, quoter addresses) and the RPC client used for
// read-only router calls.
package chain

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"

	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

// ChainInfo is everything the engine knows about one chain up front.
type ChainInfo struct {
	ID            int64
	Name          string
	WrappedNative string   // symbol of the wrapped native token
	BridgeSymbols []string // stable symbols used as multi-hop bridges
	Tokens        map[string]domain.Token
	Routers       []domain.RouterInfo
	V3Quoter      common.Address // zero address when the chain has no V3 quoter
	V3FeeTiers    []uint32
	AlgebraQuoter common.Address // zero address when absent
}

// Registry maps chain IDs to their static configuration.
type Registry struct {
	mu     sync.RWMutex
	chains map[int64]*ChainInfo
}

// TestChainID is the chain the liquidity scanner is pinned to.
const TestChainID int64 = 97

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry with the built-in chains,
// extended once from the EXTRA_ROUTERS environment override.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		if err := defaultReg.loadExtraRouters(os.Getenv("EXTRA_ROUTERS")); err != nil {
			// A malformed override must not take the built-in tables down
			// with it; the engine keeps running on the static config.
			fmt.Fprintf(os.Stderr, "chain: ignoring EXTRA_ROUTERS: %v\n", err)
		}
	})
	return defaultReg
}

// NewRegistry builds a registry with the built-in chain tables only.
func NewRegistry() *Registry {
	return &Registry{chains: builtinChains()}
}

func (r *Registry) Chain(chainID int64) (*ChainInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ci, ok := r.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("unsupported chain %d", chainID)
	}
	return ci, nil
}

// AddRouter registers an extra router descriptor for a chain.
func (r *Registry) AddRouter(chainID int64, rt domain.RouterInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ci, ok := r.chains[chainID]
	if !ok {
		return fmt.Errorf("unsupported chain %d", chainID)
	}
	for _, existing := range ci.Routers {
		if existing.Address == rt.Address {
			return nil
		}
	}
	ci.Routers = append(ci.Routers, rt)
	return nil
}

type extraRouter struct {
	ChainID int64  `json:"chainId"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// loadExtraRouters merges a JSON array of router descriptors from the
// environment, e.g. [{"chainId":56,"name":"MDEX","address":"0x..."}].
func (r *Registry) loadExtraRouters(raw string) error {
	if raw == "" {
		return nil
	}
	var extras []extraRouter
	if err := sonic.UnmarshalString(raw, &extras); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	for _, e := range extras {
		if !common.IsHexAddress(e.Address) {
			return fmt.Errorf("router %q: bad address %q", e.Name, e.Address)
		}
		if err := r.AddRouter(e.ChainID, domain.RouterInfo{
			Name:    e.Name,
			Address: common.HexToAddress(e.Address),
		}); err != nil {
			return err
		}
	}
	return nil
}

// TokenBySymbol resolves a symbol (case-insensitive) against the token table.
func (c *ChainInfo) TokenBySymbol(symbol string) (domain.Token, bool) {
	t, ok := c.Tokens[strings.ToUpper(symbol)]
	return t, ok
}

// TokenByAddress does a reverse lookup, case-insensitive on the address.
func (c *ChainInfo) TokenByAddress(addr common.Address) (domain.Token, bool) {
	for _, t := range c.Tokens {
		if t.Address == addr {
			return t, true
		}
	}
	return domain.Token{}, false
}

// SymbolFor returns the token symbol for an address, or its hex form when
// the address is not in the table. Used for diagnostic path labels.
func (c *ChainInfo) SymbolFor(addr common.Address) string {
	if t, ok := c.TokenByAddress(addr); ok {
		return t.Symbol
	}
	return addr.Hex()
}

// ResolveBridge turns a routesPool hint (token symbol or raw hex address)
// into an address. Unknown symbols resolve to false.
func (c *ChainInfo) ResolveBridge(hint string) (common.Address, bool) {
	if common.IsHexAddress(hint) {
		return common.HexToAddress(hint), true
	}
	if t, ok := c.TokenBySymbol(hint); ok {
		return t.Address, true
	}
	return common.Address{}, false
}

// DefaultBridges returns the chain's fixed bridge set: the wrapped native
// token plus the configured stable symbols.
func (c *ChainInfo) DefaultBridges() []common.Address {
	out := make([]common.Address, 0, len(c.BridgeSymbols)+1)
	if t, ok := c.TokenBySymbol(c.WrappedNative); ok {
		out = append(out, t.Address)
	}
	for _, sym := range c.BridgeSymbols {
		if t, ok := c.TokenBySymbol(sym); ok {
			out = append(out, t.Address)
		}
	}
	return out
}

// RoutersFiltered returns the router list minus blacklisted addresses
// (case-insensitive match).
func (c *ChainInfo) RoutersFiltered(blacklist []string) []domain.RouterInfo {
	if len(blacklist) == 0 {
		return c.Routers
	}
	banned := make(map[string]struct{}, len(blacklist))
	for _, b := range blacklist {
		banned[strings.ToLower(strings.TrimSpace(b))] = struct{}{}
	}
	out := make([]domain.RouterInfo, 0, len(c.Routers))
	for _, rt := range c.Routers {
		if _, ok := banned[strings.ToLower(rt.Address.Hex())]; ok {
			continue
		}
		out = append(out, rt)
	}
	return out
}

func tok(symbol, addr string, decimals uint8) domain.Token {
	return domain.Token{Symbol: symbol, Address: common.HexToAddress(addr), Decimals: decimals}
}

func tokenTable(tokens ...domain.Token) map[string]domain.Token {
	m := make(map[string]domain.Token, len(tokens))
	for _, t := range tokens {
		m[strings.ToUpper(t.Symbol)] = t
	}
	return m
}

func builtinChains() map[int64]*ChainInfo {
	return map[int64]*ChainInfo{
		56: {
			ID:            56,
			Name:          "bsc",
			WrappedNative: "WBNB",
			BridgeSymbols: []string{"USDT", "BUSD", "USDC"},
			Tokens: tokenTable(
				tok("WBNB", "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", 18),
				tok("USDT", "0x55d398326f99059fF775485246999027B3197955", 18),
				tok("BUSD", "0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56", 18),
				tok("USDC", "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", 18),
				tok("DAI", "0x1AF3F329e8BE154074D8769D1FFa4eE058B1DBc3", 18),
				tok("CAKE", "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82", 18),
				tok("ETH", "0x2170Ed0880ac9A755fd29B2688956BD959F933F8", 18),
				tok("BTCB", "0x7130d2A12B9BCbFAe4f2634d864A1Ee1Ce3Ead9c", 18),
			),
			Routers: []domain.RouterInfo{
				{Name: "PancakeSwap", Address: common.HexToAddress("0x10ED43C718714eb63d5aA57B78B54704E256024E")},
				{Name: "Biswap", Address: common.HexToAddress("0x3a6d8cA21D1CF76F653A67577FA0D27453350dD8")},
				{Name: "ApeSwap", Address: common.HexToAddress("0xcF0feBd3f17CEf5b47b0cD257aCf6025c5BFf3b7")},
				{Name: "BakerySwap", Address: common.HexToAddress("0xCDe540d7eAFE93aC5fE6233Bee57E1270D3E330F")},
			},
			V3Quoter:   common.HexToAddress("0xB048Bbc1Ee6b733FFfCFb9e9CeF7375518e25997"),
			V3FeeTiers: []uint32{100, 500, 2500, 10000},
		},
		97: {
			ID:            97,
			Name:          "bsc-testnet",
			WrappedNative: "WBNB",
			BridgeSymbols: []string{"USDT", "BUSD", "USDC"},
			Tokens: tokenTable(
				tok("WBNB", "0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd", 18),
				tok("USDT", "0x337610d27c682E347C9cD60BD4b3b107C9d34dDd", 18),
				tok("BUSD", "0xeD24FC36d5Ee211Ea25A80239Fb8C4Cfd80f12Ee", 18),
				tok("USDC", "0x64544969ed7EBf5f083679233325356EbE738930", 18),
				tok("DAI", "0xEC5dCb5Dbf4B114C9d0F65BcCAb49EC54F6A0867", 18),
			),
			Routers: []domain.RouterInfo{
				{Name: "PancakeSwap", Address: common.HexToAddress("0xD99D1c33F9fC3444f8101754aBC46c52416550D1")},
			},
		},
	}
}
