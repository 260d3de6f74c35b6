package config

import (
	"errors"
	"strings"

	"github.com/andrew-solarstorm/go-packages/common"
)

// AggregatorConfig carries every quoting tunable. All thresholds expressed
// in basis points are policy parameters, not hard invariants.
type AggregatorConfig struct {
	// QuoteTimeoutMs bounds every single on-chain read. Default: 1500.
	QuoteTimeoutMs int

	// Concurrency is the router fan-out worker pool size. Default: 6.
	Concurrency int

	// CacheTTLSeconds is the per-router quote cache staleness bound. Default: 30.
	CacheTTLSeconds int

	// CacheToleranceBps is the amount drift band within which a cached quote
	// is reused. Default: 500 (5%).
	CacheToleranceBps int

	// CacheSize caps the quote cache entry count. Default: 1024.
	CacheSize int

	// MaxRoutes caps enumerated candidate paths. Default: 30.
	MaxRoutes int

	// SpreadCeilingBps rejects quotes whose forward/reverse prices disagree
	// by more than this. Default: 100 (1%).
	SpreadCeilingBps int

	// ExactOutToleranceBps bounds the exact-out round-trip drift. Default: 100.
	ExactOutToleranceBps int

	// MinLiquidityBps rejects best-route candidates whose decimal-normalized
	// output is below this fraction of the input. Default: 1 (0.01%).
	MinLiquidityBps int

	// PlatformFeeBps is subtracted multiplicatively in the scoring stage.
	PlatformFeeBps int

	// GasPenaltyBps is an optional extra multiplicative penalty.
	GasPenaltyBps int

	// PreferredRouterPattern + PreferredRouterBonusBps apply a bonus to V2
	// candidates whose router name contains the pattern, when the caller
	// opts in and PreferRouterEnabled is set.
	PreferredRouterPattern  string
	PreferredRouterBonusBps int
	PreferRouterEnabled     bool

	// RouterBlacklist is a comma-separated address list removed from every
	// chain's router set.
	RouterBlacklist []string
}

func (c *AggregatorConfig) Key() string {
	return AGGREGATOR_CONFIG_KEY
}

func (c *AggregatorConfig) Load() error {
	c.QuoteTimeoutMs = common.GetEnvOrDefaultInt("QUOTE_TIMEOUT_MS", 1500)
	c.Concurrency = common.GetEnvOrDefaultInt("QUOTE_CONCURRENCY", 6)
	c.CacheTTLSeconds = common.GetEnvOrDefaultInt("QUOTE_CACHE_TTL_SECONDS", 30)
	c.CacheToleranceBps = common.GetEnvOrDefaultInt("QUOTE_CACHE_TOLERANCE_BPS", 500)
	c.CacheSize = common.GetEnvOrDefaultInt("QUOTE_CACHE_SIZE", 1024)
	c.MaxRoutes = common.GetEnvOrDefaultInt("QUOTE_MAX_ROUTES", 30)
	c.SpreadCeilingBps = common.GetEnvOrDefaultInt("QUOTE_SPREAD_CEILING_BPS", 100)
	c.ExactOutToleranceBps = common.GetEnvOrDefaultInt("QUOTE_EXACT_OUT_TOLERANCE_BPS", 100)
	c.MinLiquidityBps = common.GetEnvOrDefaultInt("QUOTE_MIN_LIQUIDITY_BPS", 1)
	c.PlatformFeeBps = common.GetEnvOrDefaultInt("PLATFORM_FEE_BPS", 30)
	c.GasPenaltyBps = common.GetEnvOrDefaultInt("GAS_PENALTY_BPS", 0)
	c.PreferredRouterPattern = common.GetEnvOrDefault("PREFERRED_ROUTER_PATTERN", "")
	c.PreferredRouterBonusBps = common.GetEnvOrDefaultInt("PREFERRED_ROUTER_BONUS_BPS", 0)
	c.PreferRouterEnabled = common.GetEnvOrDefault("PREFERRED_ROUTER_ENABLED", "false") == "true"

	c.RouterBlacklist = nil
	if raw := common.GetEnvOrDefault("ROUTER_BLACKLIST", ""); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.RouterBlacklist = append(c.RouterBlacklist, part)
			}
		}
	}
	return c.Validate()
}

func (c *AggregatorConfig) Validate() error {
	if c.QuoteTimeoutMs <= 0 || c.Concurrency <= 0 || c.CacheSize <= 0 {
		return errors.New("invalid aggregator config")
	}
	if c.SpreadCeilingBps <= 0 || c.ExactOutToleranceBps <= 0 || c.MaxRoutes <= 0 {
		return errors.New("invalid aggregator thresholds")
	}
	if c.PlatformFeeBps < 0 || c.PlatformFeeBps >= 10000 ||
		c.GasPenaltyBps < 0 || c.GasPenaltyBps >= 10000 {
		return errors.New("fee and gas penalty must be in [0, 10000) bps")
	}
	return nil
}
