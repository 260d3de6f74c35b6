package router

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hqminh2201/evm-route-engine/internal/chain"
)

func mustChain(t *testing.T, id int64) *chain.ChainInfo {
	t.Helper()
	ci, err := chain.NewRegistry().Chain(id)
	if err != nil {
		t.Fatalf("chain %d: %v", id, err)
	}
	return ci
}

func addrOf(t *testing.T, ci *chain.ChainInfo, symbol string) common.Address {
	t.Helper()
	tok, ok := ci.TokenBySymbol(symbol)
	if !ok {
		t.Fatalf("token %s not in table", symbol)
	}
	return tok.Address
}

// TestBuildCandidatePathsOrdering checks the direct pair comes first,
// followed by one-bridge then two-bridge paths.
func TestBuildCandidatePathsOrdering(t *testing.T) {
	ci := mustChain(t, 56)
	in := addrOf(t, ci, "CAKE")
	out := addrOf(t, ci, "ETH")

	paths := BuildCandidatePaths(ci, in, out, nil, 0)
	if len(paths) == 0 {
		t.Fatal("expected candidate paths")
	}

	if !paths[0].IsDirect() {
		t.Errorf("first path should be direct, got %d hops", paths[0].Hops())
	}
	lastHops := 1
	for i, p := range paths {
		if p.First() != in || p.Last() != out {
			t.Errorf("path %d does not connect the endpoints: %s", i, p.Key())
		}
		if p.Hops() < lastHops {
			t.Errorf("path %d: hop count went backwards (%d after %d)", i, p.Hops(), lastHops)
		}
		lastHops = p.Hops()
	}
}

// TestBuildCandidatePathsNoDuplicates checks key-level dedup across the
// fixed bridge set and routesPool hints that repeat it.
func TestBuildCandidatePathsNoDuplicates(t *testing.T) {
	ci := mustChain(t, 56)
	in := addrOf(t, ci, "CAKE")
	out := addrOf(t, ci, "ETH")

	// WBNB and USDT are already default bridges; hints must not duplicate.
	paths := BuildCandidatePaths(ci, in, out, []string{"WBNB", "USDT", "usdt"}, 0)

	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, dup := seen[p.Key()]; dup {
			t.Errorf("duplicate path %s", p.Key())
		}
		seen[p.Key()] = struct{}{}
	}
}

// TestBuildCandidatePathsExcludesEndpoints checks neither endpoint can be
// used as an intermediate bridge.
func TestBuildCandidatePathsExcludesEndpoints(t *testing.T) {
	ci := mustChain(t, 56)
	in := addrOf(t, ci, "WBNB") // WBNB is itself a default bridge
	out := addrOf(t, ci, "USDT")

	paths := BuildCandidatePaths(ci, in, out, nil, 0)
	for _, p := range paths {
		for _, mid := range p.Tokens[1 : len(p.Tokens)-1] {
			if mid == in || mid == out {
				t.Errorf("endpoint used as bridge in %s", p.Key())
			}
		}
	}
}

// TestBuildCandidatePathsCap checks enumeration stops at maxRoutes.
func TestBuildCandidatePathsCap(t *testing.T) {
	ci := mustChain(t, 56)
	in := addrOf(t, ci, "CAKE")
	out := addrOf(t, ci, "ETH")

	for _, max := range []int{1, 2, 5} {
		paths := BuildCandidatePaths(ci, in, out, nil, max)
		if len(paths) > max {
			t.Errorf("maxRoutes=%d: got %d paths", max, len(paths))
		}
	}

	// Default cap with a large hinted bridge set: 4 bridges produce
	// 1 + 4 + 12 = 17 paths, under the default of 30.
	paths := BuildCandidatePaths(ci, in, out, []string{"DAI"}, 0)
	if len(paths) > DefaultMaxRoutes {
		t.Errorf("default cap exceeded: %d paths", len(paths))
	}
}

// TestBuildCandidatePathsSameToken checks identical endpoints produce no
// paths at all.
func TestBuildCandidatePathsSameToken(t *testing.T) {
	ci := mustChain(t, 56)
	in := addrOf(t, ci, "WBNB")

	if paths := BuildCandidatePaths(ci, in, in, nil, 0); paths != nil {
		t.Errorf("expected nil for identical endpoints, got %d paths", len(paths))
	}
}

// TestBuildCandidatePathsRoutesPool checks hints extend the bridge set,
// both as symbols and raw addresses, and unknown symbols are ignored.
func TestBuildCandidatePathsRoutesPool(t *testing.T) {
	ci := mustChain(t, 56)
	in := addrOf(t, ci, "CAKE")
	out := addrOf(t, ci, "ETH")
	dai := addrOf(t, ci, "DAI")

	base := BuildCandidatePaths(ci, in, out, nil, 0)
	withHint := BuildCandidatePaths(ci, in, out, []string{"DAI"}, 0)
	if len(withHint) <= len(base) {
		t.Fatalf("DAI hint added no paths: %d vs %d", len(withHint), len(base))
	}

	found := false
	for _, p := range withHint {
		for _, tok := range p.Tokens[1 : len(p.Tokens)-1] {
			if tok == dai {
				found = true
			}
		}
	}
	if !found {
		t.Error("no path routes through the hinted bridge")
	}

	byAddr := BuildCandidatePaths(ci, in, out, []string{dai.Hex()}, 0)
	if len(byAddr) != len(withHint) {
		t.Errorf("address hint differs from symbol hint: %d vs %d", len(byAddr), len(withHint))
	}

	unknown := BuildCandidatePaths(ci, in, out, []string{"NOPE"}, 0)
	if len(unknown) != len(base) {
		t.Errorf("unknown symbol changed enumeration: %d vs %d", len(unknown), len(base))
	}
}
