package rand

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// MultinomialN draws n indices in [0, len(w)) with replacement.
// Index i is drawn with probability proportional to w[i].
// It returns error if any weight is negative or not finite or if all weights are zero.
func MultinomialN(rng *rand.Rand, w []float64, n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of draws: %d", n)
	}

	if len(w) == 0 {
		return nil, fmt.Errorf("empty weights")
	}

	for i, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid weight %f at index %d", v, i)
		}
	}

	if floats.Sum(w) <= 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}

	c := distuv.NewCategorical(w, rng)

	indices := make([]int, n)
	for i := range indices {
		indices[i] = int(c.Rand())
	}

	return indices, nil
}

// Mvn draws vectors from multivariate normal distributions which share
// a covariance matrix but differ in their means.
type Mvn struct {
	norm *distmv.Normal
	dim  int
}

// NewMvn creates new Mvn with covariance given by its Cholesky factorization chol.
// Draws consume the random generator rng.
func NewMvn(rng *rand.Rand, chol *mat.Cholesky) *Mvn {
	dim := chol.SymmetricDim()

	return &Mvn{
		norm: distmv.NewNormalChol(make([]float64, dim), chol, rng),
		dim:  dim,
	}
}

// Draw returns a vector drawn from the distribution centered at mean.
// It returns error if mean has invalid dimension.
func (m *Mvn) Draw(mean mat.Vector) (*mat.VecDense, error) {
	if mean.Len() != m.dim {
		return nil, fmt.Errorf("invalid mean dimension: %d, expected: %d", mean.Len(), m.dim)
	}

	x := mat.NewVecDense(m.dim, m.norm.Rand(nil))
	x.AddVec(x, mean)

	return x, nil
}

// WithCovN draws n zero mean vectors with covariance cov and returns them
// stored as matrix columns. cov must be positive semi-definite.
func WithCovN(rng *rand.Rand, cov mat.Symmetric, n int) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of draws: %d", n)
	}

	d := cov.SymmetricDim()

	norm, ok := distmv.NewNormal(make([]float64, d), cov, rng)
	if !ok {
		return withSemiDefCovN(rng, cov, n)
	}

	x := mat.NewDense(d, n, nil)
	for c := 0; c < n; c++ {
		x.SetCol(c, norm.Rand(nil))
	}

	return x, nil
}

// withSemiDefCovN draws n zero mean vectors with a singular positive
// semi-definite covariance cov, which distmv.Normal can not represent.
func withSemiDefCovN(rng *rand.Rand, cov mat.Symmetric, n int) (*mat.Dense, error) {
	d := cov.SymmetricDim()

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, fmt.Errorf("eigendecomposition of covariance failed")
	}

	vals := eig.Values(nil)
	tol := 1e-12 * math.Max(1, floats.Max(vals))

	// scale the eigenvectors by square roots of eigenvalues: cov = (V*S)(V*S)^T
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	for j, v := range vals {
		if v < -tol {
			return nil, fmt.Errorf("covariance is not positive semi-definite: eigenvalue %f", v)
		}
		s := math.Sqrt(math.Max(v, 0))
		for i := 0; i < d; i++ {
			vecs.Set(i, j, vecs.At(i, j)*s)
		}
	}

	z := mat.NewDense(d, n, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			z.Set(i, j, rng.NormFloat64())
		}
	}

	x := mat.NewDense(d, n, nil)
	x.Mul(&vecs, z)

	return x, nil
}
