package core

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// GetSeed returns the random seed from the IVFKIT_SEED environment variable,
// or def when the variable is unset or cannot be parsed.
func GetSeed(def int64) int64 {
	seedStr := os.Getenv("IVFKIT_SEED")
	if seedStr != "" {
		if seed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
			log.Info().Msgf("Using seed from IVFKIT_SEED value: %d", seed)
			return seed
		}
		log.Warn().Msgf("Failed to parse IVFKIT_SEED value: %s", seedStr)
	}
	return def
}

// GetIterations returns the k-means iteration count from IVFKIT_NITER, or def.
func GetIterations(def int) int {
	s := os.Getenv("IVFKIT_NITER")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Warn().Msgf("Ignoring invalid IVFKIT_NITER value: %s", s)
		return def
	}
	log.Info().Msgf("Using %d k-means iterations from IVFKIT_NITER", n)
	return n
}
