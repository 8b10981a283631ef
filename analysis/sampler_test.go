package analysis

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sequentialDataset(n int) Dataset {
	d := make(Dataset, n)
	for i := 0; i < n; i++ {
		d[i] = Row{"idx": i}
	}
	return d
}

func TestSampleRowsSmallDatasetUnchanged(t *testing.T) {
	d := sequentialDataset(100)
	got := SampleRows(d, 150)

	assert.Len(t, got, 100)
	assert.Equal(t, d, got)
}

func TestSampleRowsExactLimit(t *testing.T) {
	d := sequentialDataset(150)
	assert.Equal(t, d, SampleRows(d, 150))
}

func TestSampleRowsLength(t *testing.T) {
	for _, n := range []int{151, 500, 10000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			got := SampleRows(sequentialDataset(n), 150)
			assert.Len(t, got, 150)
		})
	}
}

func TestSampleRowsHeadAndTailDeterministic(t *testing.T) {
	d := sequentialDataset(1000)
	got := SampleRowsWithRand(d, 150, rand.New(rand.NewSource(1)))

	// First 30 rows are the dataset head in original order.
	for i := 0; i < 30; i++ {
		assert.Equal(t, i, got[i]["idx"])
	}
	// Last 30 rows are the dataset tail in original order.
	for i := 0; i < 30; i++ {
		assert.Equal(t, 970+i, got[120+i]["idx"])
	}
}

func TestSampleRowsMiddleStaysInMiddle(t *testing.T) {
	d := sequentialDataset(1000)
	got := SampleRowsWithRand(d, 150, rand.New(rand.NewSource(42)))

	for i := 30; i < 120; i++ {
		idx := got[i]["idx"].(int)
		assert.GreaterOrEqual(t, idx, 30)
		assert.Less(t, idx, 970)
	}
}

func TestSampleRowsReproducibleWithSeed(t *testing.T) {
	d := sequentialDataset(1000)
	a := SampleRowsWithRand(d, 150, rand.New(rand.NewSource(7)))
	b := SampleRowsWithRand(d, 150, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestSampleRowsZeroLimit(t *testing.T) {
	assert.Empty(t, SampleRows(sequentialDataset(10), 0))
}
