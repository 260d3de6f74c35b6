package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hqminh2201/evm-route-engine/internal/aggregator"
	"github.com/hqminh2201/evm-route-engine/internal/common"
	"github.com/hqminh2201/evm-route-engine/internal/config"
	"github.com/hqminh2201/evm-route-engine/internal/http"
)

// @title EVM Route Engine API
// @version 1.0
// @description Swap-quote aggregation engine for EVM chains. Fans a quote
// @description request out across every configured DEX router and path
// @description topology, cross-checks forward and reverse prices, and returns
// @description the best verified quote.
// @description
// @description ## - Features
// @description - **Multi-Router Aggregation**: Quotes PancakeSwap, Biswap, ApeSwap, BakerySwap and any router added at runtime
// @description - **Bridge Routing**: Direct, one-bridge and two-bridge paths through WBNB/USDT/BUSD/USDC
// @description - **Price Verification**: Every quote is confirmed with the complementary reverse query; wide spreads are rejected
// @description - **Scored Best-Route**: V2, V3 and Algebra sources ranked with fee and gas adjusted scoring
// @description - **Quote Cache**: TTL cache with an amount tolerance band to absorb near-identical requests
// @description
// @description ## - Usage Tips
// @description - Amounts are smallest token units as decimal strings
// @description - Most BSC tokens have 18 decimals: 1 token = 1000000000000000000
// @description - Rate limit: 10 requests/second (burst: 20)
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Get aggregated swap quotes and scored best routes
// @tag.name scan
// @tag.description Probe testnet pair liquidity across routers

func main() {
	// GOGC / GOMAXPROCS / GOMEMLIMIT tuning
	common.InitRuntime()

	// load env
	err := godotenv.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load env")
		return
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.RPCConfig{},
		&config.AggregatorConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&aggregator.Service{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	// Run() waits for SIGINT/SIGTERM
	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
