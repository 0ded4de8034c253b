// Package projection places term-weight rows on a 2-D plane.
// Clean Architecture: Adapter implementing ports.Projector.
package projection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

// MinRows is the smallest row count for which a two-component projection is
// computed. Smaller spaces project every row to the origin.
const MinRows = 3

const (
	components    = 2
	oversample    = 2
	maxIterations = 300
	tolerance     = 1e-13
)

// PCA projects rows onto their first two principal components.
// The basis is recomputed on every call.
//
// Only the leading components are computed, by orthogonal (block power)
// iteration on the covariance operator followed by a Rayleigh-Ritz step.
// The covariance is applied through the sparse rows, never materialised, so
// the cost is linear in the number of non-zero weights per iteration.
type PCA struct{}

// NewPCA creates a PCA projector.
func NewPCA() *PCA {
	return &PCA{}
}

// Project returns one coordinate per row, in row order.
func (p *PCA) Project(space entities.VectorSpace) []entities.Coordinate {
	n := space.Len()
	coords := make([]entities.Coordinate, n)
	if n < MinRows || len(space.Terms) == 0 {
		return coords
	}

	data, ok := newCentered(space)
	if !ok {
		return coords
	}
	basis := data.leading(min(components, data.dims))

	shiftX := floats.Dot(data.mean, basis[0])
	shiftY := 0.0
	if len(basis) > 1 {
		shiftY = floats.Dot(data.mean, basis[1])
	}
	for i := range coords {
		coords[i].X = clean(data.dot(i, basis[0]) - shiftX)
		if len(basis) > 1 {
			coords[i].Y = clean(data.dot(i, basis[1]) - shiftY)
		}
	}
	return coords
}

// sparseRow keeps the non-zero weights of one row.
type sparseRow struct {
	idx []int
	val []float64
}

// centered is the row set with its column means; rows are centred lazily.
type centered struct {
	rows []sparseRow
	mean []float64
	dims int
}

func newCentered(space entities.VectorSpace) (*centered, bool) {
	d := len(space.Terms)
	c := &centered{rows: make([]sparseRow, len(space.Rows)), mean: make([]float64, d), dims: d}
	for i, row := range space.Rows {
		if len(row) != d {
			return nil, false
		}
		for j, v := range row {
			if v == 0 {
				continue
			}
			c.rows[i].idx = append(c.rows[i].idx, j)
			c.rows[i].val = append(c.rows[i].val, v)
			c.mean[j] += v
		}
	}
	floats.Scale(1/float64(len(space.Rows)), c.mean)
	return c, true
}

// dot is the uncentred row i projected on v.
func (c *centered) dot(i int, v []float64) float64 {
	row := c.rows[i]
	s := 0.0
	for k, j := range row.idx {
		s += row.val[k] * v[j]
	}
	return s
}

// apply writes Xcᵀ·Xc·v into dst, where Xc is the centred data.
// The 1/(n-1) covariance factor is dropped; it does not change the vectors.
func (c *centered) apply(v, dst []float64) {
	for j := range dst {
		dst[j] = 0
	}
	shift := floats.Dot(c.mean, v)
	sum := 0.0
	for i, row := range c.rows {
		y := c.dot(i, v) - shift
		sum += y
		for k, j := range row.idx {
			dst[j] += y * row.val[k]
		}
	}
	floats.AddScaled(dst, -sum, c.mean)
}

// leading returns the top k unit principal axes, largest variance first,
// each oriented so its largest-magnitude loading is positive.
func (c *centered) leading(k int) [][]float64 {
	size := min(c.dims, k+oversample)
	rng := rand.New(rand.NewPCG(0x5eed, 0x9ca))

	block := make([][]float64, size)
	for j := range block {
		block[j] = randomVector(rng, c.dims)
	}
	orthonormalize(block, rng)

	next := make([][]float64, size)
	for j := range next {
		next[j] = make([]float64, c.dims)
	}
	for iter := 0; iter < maxIterations; iter++ {
		for j := range block {
			c.apply(block[j], next[j])
		}
		reseeded := orthonormalize(next, rng)

		converged := true
		for j := 0; j < k; j++ {
			if !reseeded[j] && 1-math.Abs(floats.Dot(block[j], next[j])) > tolerance {
				converged = false
				break
			}
		}
		block, next = next, block
		if converged {
			break
		}
	}

	axes := c.rayleighRitz(block, k)
	for _, axis := range axes {
		orient(axis)
	}
	return axes
}

// rayleighRitz diagonalises the operator restricted to the block and returns
// the k Ritz vectors with the largest Ritz values.
func (c *centered) rayleighRitz(block [][]float64, k int) [][]float64 {
	size := len(block)
	images := make([][]float64, size)
	for j := range block {
		images[j] = make([]float64, c.dims)
		c.apply(block[j], images[j])
	}

	h := mat.NewSymDense(size, nil)
	for i := 0; i < size; i++ {
		for j := i; j < size; j++ {
			h.SetSym(i, j, (floats.Dot(block[i], images[j])+floats.Dot(block[j], images[i]))/2)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(h, true); !ok {
		return block[:k]
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues ascend, so the leading axes are the last columns.
	axes := make([][]float64, k)
	for r := 0; r < k; r++ {
		col := size - 1 - r
		axis := make([]float64, c.dims)
		for j := range block {
			floats.AddScaled(axis, vecs.At(j, col), block[j])
		}
		if norm := floats.Norm(axis, 2); norm > 0 {
			floats.Scale(1/norm, axis)
		}
		axes[r] = axis
	}
	return axes
}

// orthonormalize runs modified Gram-Schmidt in place. A vector that vanishes
// against the earlier ones lies in the null space; it is replaced by a fresh
// random direction and reported as reseeded.
func orthonormalize(vs [][]float64, rng *rand.Rand) []bool {
	reseeded := make([]bool, len(vs))
	for j := range vs {
		scale := floats.Norm(vs[j], 2)
		for attempt := 0; ; attempt++ {
			for pass := 0; pass < 2; pass++ {
				for i := 0; i < j; i++ {
					floats.AddScaled(vs[j], -floats.Dot(vs[i], vs[j]), vs[i])
				}
			}
			norm := floats.Norm(vs[j], 2)
			if (norm > 0 && norm > 1e-10*scale) || attempt > 3 {
				if norm > 0 {
					floats.Scale(1/norm, vs[j])
				}
				break
			}
			reseeded[j] = true
			copy(vs[j], randomVector(rng, len(vs[j])))
			scale = floats.Norm(vs[j], 2)
		}
	}
	return reseeded
}

func randomVector(rng *rand.Rand, d int) []float64 {
	v := make([]float64, d)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return v
}

// orient makes the largest-magnitude loading positive, so the same input
// always yields the same orientation.
func orient(axis []float64) {
	best, sign := 0.0, 1.0
	for _, v := range axis {
		if math.Abs(v) > best {
			best, sign = math.Abs(v), math.Copysign(1, v)
		}
	}
	if sign < 0 {
		floats.Scale(-1, axis)
	}
}

// clean maps non-finite values and negative zero to 0.
func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0
	}
	return v
}
