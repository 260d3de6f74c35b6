package common

import (
	"os"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	defaultGOGC     = 400
	defaultMemLimit = 2 * 1024 * 1024 * 1024 // 2GB
)

// InitRuntime applies GC and memory-limit defaults suited to a quote
// service that is mostly idle between request bursts. Environment
// variables GOGC and GOMEMLIMIT win when set.
func InitRuntime() {
	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(defaultGOGC)
	}
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(defaultMemLimit)
	}

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Str("gogc", envOr("GOGC", strconv.Itoa(defaultGOGC))).
		Msg("runtime tuned")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
