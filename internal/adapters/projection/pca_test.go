package projection

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/0xcro3dile/prism/internal/adapters/similarity"
	"github.com/0xcro3dile/prism/internal/domain/entities"
)

func TestPCA_TooFewRows(t *testing.T) {
	for _, rows := range [][][]float64{
		nil,
		{{1, 0}},
		{{1, 0}, {0, 1}},
	} {
		space := entities.VectorSpace{Terms: []string{"a", "b"}, Rows: rows}
		coords := NewPCA().Project(space)
		require.Len(t, coords, len(rows))
		for _, c := range coords {
			assert.Equal(t, entities.Coordinate{}, c)
		}
	}
}

func TestPCA_EmptyVocabulary(t *testing.T) {
	space := entities.VectorSpace{Rows: [][]float64{{}, {}, {}}}
	assert.Equal(t, make([]entities.Coordinate, 3), NewPCA().Project(space))
}

func TestPCA_RaggedRows(t *testing.T) {
	space := entities.VectorSpace{Terms: []string{"a", "b"}, Rows: [][]float64{{1, 0}, {0}, {1, 1}}}
	assert.Equal(t, make([]entities.Coordinate, 3), NewPCA().Project(space))
}

func TestPCA_PointsOnALine(t *testing.T) {
	space := entities.VectorSpace{
		Terms: []string{"a", "b"},
		Rows:  [][]float64{{0, 0}, {1, 1}, {2, 2}},
	}
	coords := NewPCA().Project(space)
	require.Len(t, coords, 3)

	assert.InDelta(t, -math.Sqrt2, coords[0].X, 1e-9)
	assert.InDelta(t, 0, coords[1].X, 1e-9)
	assert.InDelta(t, math.Sqrt2, coords[2].X, 1e-9)
	for _, c := range coords {
		assert.InDelta(t, 0, c.Y, 1e-9)
	}
}

func TestPCA_TFIDFSpace(t *testing.T) {
	space := similarity.NewTFIDF().Vectorize([]string{
		"apple pie recipe",
		"apple orchard harvest",
		"banana bread recipe",
		"quantum physics lecture",
	})
	pca := NewPCA()
	coords := pca.Project(space)
	require.Len(t, coords, 4)

	nonZero := false
	for _, c := range coords {
		assert.False(t, math.IsNaN(c.X) || math.IsNaN(c.Y))
		if c.X != 0 || c.Y != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
	assert.Equal(t, coords, pca.Project(space), "projection must be deterministic")
}

func TestPCA_MatchesFullDecomposition(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const n, d = 25, 8
	rows := make([][]float64, n)
	data := mat.NewDense(n, d, nil)
	for i := range rows {
		rows[i] = make([]float64, d)
		for j := range rows[i] {
			// Decaying column scales keep the leading eigenvalues well apart.
			v := rng.Float64() * float64(d-j) * float64(d-j)
			if rng.IntN(3) == 0 {
				v = 0
			}
			rows[i][j] = v
			data.Set(i, j, v)
		}
	}
	terms := make([]string, d)
	for j := range terms {
		terms[j] = fmt.Sprintf("t%d", j)
	}

	coords := NewPCA().Project(entities.VectorSpace{Terms: terms, Rows: rows})

	var pc stat.PC
	require.True(t, pc.PrincipalComponents(data, nil))
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	means := make([]float64, d)
	for j := range means {
		means[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}
	for comp := 0; comp < 2; comp++ {
		axis := mat.Col(nil, comp, &vecs)
		orient(axis)
		for i := 0; i < n; i++ {
			want := 0.0
			for j := 0; j < d; j++ {
				want += (rows[i][j] - means[j]) * axis[j]
			}
			got := coords[i].X
			if comp == 1 {
				got = coords[i].Y
			}
			assert.InDelta(t, want, got, 1e-4, "row %d component %d", i, comp)
		}
	}
}

func TestPCA_IdenticalRows(t *testing.T) {
	space := entities.VectorSpace{
		Terms: []string{"a", "b", "c"},
		Rows:  [][]float64{{1, 2, 0}, {1, 2, 0}, {1, 2, 0}},
	}
	coords := NewPCA().Project(space)
	require.Len(t, coords, 3)
	for _, c := range coords {
		assert.InDelta(t, 0, c.X, 1e-12)
		assert.InDelta(t, 0, c.Y, 1e-12)
	}
}

// largeCorpus builds about a megabyte of text cut into chunk-sized documents
// over a vocabulary of the given size.
func largeCorpus(docs, vocabulary int) []string {
	rng := rand.New(rand.NewPCG(3, 5))
	out := make([]string, docs)
	var sb strings.Builder
	for i := range out {
		sb.Reset()
		for w := 0; w < 80; w++ {
			fmt.Fprintf(&sb, "term%d ", rng.IntN(vocabulary))
		}
		out[i] = sb.String()
	}
	return out
}

func TestPCA_LargeSpaceFinishesQuickly(t *testing.T) {
	if testing.Short() {
		t.Skip("large projection skipped in short mode")
	}
	space := similarity.NewTFIDF().Vectorize(largeCorpus(2300, 3000))

	started := time.Now()
	coords := NewPCA().Project(space)
	elapsed := time.Since(started)

	require.Len(t, coords, 2300)
	assert.Less(t, elapsed, 20*time.Second)
	for _, c := range coords {
		assert.False(t, math.IsNaN(c.X) || math.IsNaN(c.Y))
	}
}

func BenchmarkPCA_Project(b *testing.B) {
	space := similarity.NewTFIDF().Vectorize(largeCorpus(2300, 3000))
	pca := NewPCA()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pca.Project(space)
	}
}
