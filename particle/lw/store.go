package lw

import (
	"math"

	filter "github.com/marco-hrlic/go-smc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// generation is a set of filter particles at a single observation time.
// A generation is never modified once it's installed in the filter:
// every update allocates a new generation and swaps it in.
type generation struct {
	// x stores state particles as column vectors
	x *mat.Dense
	// theta stores parameter particles as column vectors
	theta *mat.Dense
	// logw stores unnormalized particle log weights
	logw []float64
}

// newGeneration allocates a generation of n particles with zero states,
// zero parameters and zero log weights.
func newGeneration(nx, np, n int) *generation {
	return &generation{
		x:     mat.NewDense(nx, n, nil),
		theta: mat.NewDense(np, n, nil),
		logw:  make([]float64, n),
	}
}

// normalize turns log weights into probabilities which sum up to 1.
// The largest log weight is subtracted before exponentiating so that
// very small likelihoods don't underflow.
// It returns ErrDegenerateWeights if no weight is positive and finite.
func normalize(logw []float64) ([]float64, error) {
	if len(logw) == 0 {
		return nil, filter.ErrDegenerateWeights
	}

	for _, v := range logw {
		if math.IsNaN(v) || math.IsInf(v, 1) {
			return nil, filter.ErrDegenerateWeights
		}
	}

	maxw := floats.Max(logw)
	if math.IsInf(maxw, -1) {
		return nil, filter.ErrDegenerateWeights
	}

	w := make([]float64, len(logw))
	for i, v := range logw {
		w[i] = math.Exp(v - maxw)
	}
	floats.Scale(1/floats.Sum(w), w)

	return w, nil
}

// weighted returns weighted mean and covariance of column vectors of x
func weighted(x *mat.Dense, w []float64) (*mat.VecDense, *mat.SymDense) {
	rows, cols := x.Dims()

	mean := mat.NewVecDense(rows, nil)
	for c := 0; c < cols; c++ {
		mean.AddScaledVec(mean, w[c], x.ColView(c))
	}

	cov := mat.NewSymDense(rows, nil)
	diff := mat.NewVecDense(rows, nil)
	for c := 0; c < cols; c++ {
		diff.SubVec(x.ColView(c), mean)
		cov.SymRankOne(cov, w[c], diff)
	}

	return mean, cov
}
