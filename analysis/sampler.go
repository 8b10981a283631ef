package analysis

import (
	"math/rand"
	"time"
)

// DefaultSampleLimit bounds the subset embedded into the insight prompt.
const DefaultSampleLimit = 150

// SampleRows returns a bounded representative subset of the dataset: the
// head and tail are always present, the bulk is sampled at random. Datasets
// already within the limit come back unchanged.
func SampleRows(d Dataset, limit int) Dataset {
	return SampleRowsWithRand(d, limit, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// SampleRowsWithRand is SampleRows with an explicit random source, so the
// middle portion is reproducible under test.
//
// The split is 20% head, 60% random middle, 20% tail of the limit. Keeping
// the earliest and latest rows guarantees the most recent records survive
// sampling; random draws from the middle (with replacement, duplicates are
// acceptable) avoid biasing toward any one contiguous range.
func SampleRowsWithRand(d Dataset, limit int, rng *rand.Rand) Dataset {
	if limit <= 0 {
		return Dataset{}
	}
	if len(d) <= limit {
		return d
	}

	headN := limit * 20 / 100
	tailN := limit * 20 / 100
	middleN := limit - headN - tailN

	out := make(Dataset, 0, limit)
	out = append(out, d[:headN]...)

	lo := headN
	hi := len(d) - tailN
	for i := 0; i < middleN; i++ {
		out = append(out, d[lo+rng.Intn(hi-lo)])
	}

	out = append(out, d[len(d)-tailN:]...)
	return out
}
