package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
)

// RPCConfig maps chain IDs to JSON-RPC endpoints. RPC_URLS is a JSON object
// keyed by decimal chain ID, e.g. {"56":"https://...","97":"https://..."};
// unset chains fall back to public endpoints.
type RPCConfig struct {
	URLs map[int64]string
}

func (r *RPCConfig) Key() string {
	return RPC_CONFIG_KEY
}

func (r *RPCConfig) Load() error {
	r.URLs = map[int64]string{
		56: "https://bsc-dataseed.binance.org",
		97: "https://data-seed-prebsc-1-s1.binance.org:8545",
	}

	raw := os.Getenv("RPC_URLS")
	if raw != "" {
		var overrides map[string]string
		if err := sonic.UnmarshalString(raw, &overrides); err != nil {
			return fmt.Errorf("invalid RPC_URLS: %w", err)
		}
		for key, url := range overrides {
			chainID, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid RPC_URLS chain id %q", key)
			}
			r.URLs[chainID] = url
		}
	}
	return r.Validate()
}

func (r *RPCConfig) Validate() error {
	if len(r.URLs) == 0 {
		return errors.New("invalid rpc config")
	}
	for chainID, url := range r.URLs {
		if url == "" {
			return fmt.Errorf("empty rpc url for chain %d", chainID)
		}
	}
	return nil
}
