package vecio

import (
	"fmt"
	"math/rand"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/rs/zerolog/log"
)

// DefaultSampleSeed is the seed used when no sampling seed is given.
const DefaultSampleSeed int64 = 42

// NewSampleRand returns a generator for one sampling run.
func NewSampleRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SampleIndices returns the first numSampled entries of a random permutation
// of [0, rows), in permutation order.
func SampleIndices(rows, numSampled int, rng *rand.Rand) ([]int, error) {
	if numSampled < 0 || numSampled > rows {
		return nil, fmt.Errorf("%w: cannot sample %d of %d rows", core.ErrRange, numSampled, rows)
	}
	return rng.Perm(rows)[:numSampled], nil
}

// WriteSampled writes numSampled randomly selected rows of ds to path in the
// record layout. The same (rng seed, ds.Rows) pair always selects the same rows
// in the same order.
func WriteSampled(path string, ds Dataset[int32], numSampled int, rng *rand.Rand) error {
	idx, err := SampleIndices(ds.Rows, numSampled, rng)
	if err != nil {
		return err
	}
	if err := ds.validate(); err != nil {
		return err
	}
	log.Info().Msgf("Sampling %d of %d vectors", numSampled, ds.Rows)

	sample := NewDataset[int32](len(idx), ds.Dim)
	for i, j := range idx {
		copy(sample.Row(i), ds.Row(j))
	}
	return WriteRecords(path, sample)
}

// WriteSampledFloat bit-casts ds to int32 and writes a sample with WriteSampled.
func WriteSampledFloat(path string, ds Dataset[float32], numSampled int, rng *rand.Rand) error {
	return WriteSampled(path, Float32Bits(ds), numSampled, rng)
}
