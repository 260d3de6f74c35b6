package chain

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hqminh2201/evm-route-engine/internal/domain"
)

// TestRegistryBuiltins checks both built-in chains resolve with a usable
// token table and router set.
func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []int64{56, TestChainID} {
		ci, err := reg.Chain(id)
		if err != nil {
			t.Fatalf("chain %d: %v", id, err)
		}
		if len(ci.Tokens) == 0 || len(ci.Routers) == 0 {
			t.Errorf("chain %d: empty config", id)
		}
		if _, ok := ci.TokenBySymbol(ci.WrappedNative); !ok {
			t.Errorf("chain %d: wrapped native %s missing from table", id, ci.WrappedNative)
		}
		if len(ci.DefaultBridges()) == 0 {
			t.Errorf("chain %d: no default bridges", id)
		}
	}

	if _, err := reg.Chain(1); err == nil {
		t.Error("unknown chain should error")
	}
}

// TestTokenLookups checks symbol lookup is case-insensitive and the
// reverse lookup round-trips.
func TestTokenLookups(t *testing.T) {
	ci, _ := NewRegistry().Chain(56)

	lower, ok := ci.TokenBySymbol("wbnb")
	if !ok {
		t.Fatal("lowercase symbol lookup failed")
	}
	upper, _ := ci.TokenBySymbol("WBNB")
	if lower.Address != upper.Address {
		t.Error("case changed the resolved token")
	}

	back, ok := ci.TokenByAddress(lower.Address)
	if !ok || back.Symbol != "WBNB" {
		t.Errorf("reverse lookup = %+v", back)
	}

	unknown := common.HexToAddress("0x00000000000000000000000000000000DeaDBeef")
	if got := ci.SymbolFor(unknown); got != unknown.Hex() {
		t.Errorf("unknown address symbol = %s", got)
	}
}

// TestResolveBridge checks hints resolve as symbols or raw addresses.
func TestResolveBridge(t *testing.T) {
	ci, _ := NewRegistry().Chain(56)
	usdt, _ := ci.TokenBySymbol("USDT")

	if addr, ok := ci.ResolveBridge("usdt"); !ok || addr != usdt.Address {
		t.Errorf("symbol hint = %s, %v", addr.Hex(), ok)
	}
	if addr, ok := ci.ResolveBridge(usdt.Address.Hex()); !ok || addr != usdt.Address {
		t.Errorf("address hint = %s, %v", addr.Hex(), ok)
	}
	if _, ok := ci.ResolveBridge("NOPE"); ok {
		t.Error("unknown symbol resolved")
	}
}

// TestAddRouter checks runtime extension is idempotent per address.
func TestAddRouter(t *testing.T) {
	reg := NewRegistry()
	rt := domain.RouterInfo{Name: "MDEX", Address: common.HexToAddress("0x0000000000000000000000000000000000001234")}

	before, _ := reg.Chain(56)
	n := len(before.Routers)

	if err := reg.AddRouter(56, rt); err != nil {
		t.Fatal(err)
	}
	if err := reg.AddRouter(56, rt); err != nil {
		t.Fatal(err)
	}
	after, _ := reg.Chain(56)
	if len(after.Routers) != n+1 {
		t.Errorf("routers = %d, want %d", len(after.Routers), n+1)
	}

	if err := reg.AddRouter(1, rt); err == nil {
		t.Error("unknown chain accepted a router")
	}
}

// TestLoadExtraRouters checks the env JSON merge and its failure modes.
func TestLoadExtraRouters(t *testing.T) {
	reg := NewRegistry()
	if err := reg.loadExtraRouters(""); err != nil {
		t.Errorf("empty override: %v", err)
	}
	if err := reg.loadExtraRouters(`not json`); err == nil {
		t.Error("malformed JSON accepted")
	}
	if err := reg.loadExtraRouters(`[{"chainId":56,"name":"MDEX","address":"garbage"}]`); err == nil {
		t.Error("bad address accepted")
	}

	raw := `[{"chainId":56,"name":"MDEX","address":"0x0000000000000000000000000000000000005678"}]`
	if err := reg.loadExtraRouters(raw); err != nil {
		t.Fatalf("valid override: %v", err)
	}
	ci, _ := reg.Chain(56)
	found := false
	for _, rt := range ci.Routers {
		if rt.Name == "MDEX" {
			found = true
		}
	}
	if !found {
		t.Error("merged router missing")
	}
}

// TestRoutersFiltered checks the blacklist matches case-insensitively.
func TestRoutersFiltered(t *testing.T) {
	ci, _ := NewRegistry().Chain(56)
	banned := ci.Routers[0].Address

	out := ci.RoutersFiltered([]string{" " + banned.Hex() + " "})
	if len(out) != len(ci.Routers)-1 {
		t.Fatalf("filtered = %d, want %d", len(out), len(ci.Routers)-1)
	}
	for _, rt := range out {
		if rt.Address == banned {
			t.Error("banned router survived")
		}
	}

	lower := ci.RoutersFiltered([]string{strings.ToLower(banned.Hex())})
	if len(lower) != len(out) {
		t.Error("blacklist match is case-sensitive")
	}

	if got := ci.RoutersFiltered(nil); len(got) != len(ci.Routers) {
		t.Error("empty blacklist changed the set")
	}
}
