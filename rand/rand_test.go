package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestMultinomialN(t *testing.T) {
	assert := assert.New(t)
	rng := rand.New(rand.NewSource(1))

	w := []float64{0.1, 0.0, 0.6, 0.3}
	indices, err := MultinomialN(rng, w, 10000)
	assert.NoError(err)
	assert.Len(indices, 10000)

	counts := make([]float64, len(w))
	for _, i := range indices {
		assert.True(i >= 0 && i < len(w))
		counts[i]++
	}
	assert.Equal(0.0, counts[1])
	assert.InDelta(0.6, counts[2]/10000, 0.03)
	assert.InDelta(0.1, counts[0]/10000, 0.03)

	// invalid input
	_, err = MultinomialN(rng, w, 0)
	assert.Error(err)
	_, err = MultinomialN(rng, nil, 1)
	assert.Error(err)
	_, err = MultinomialN(rng, []float64{0, 0}, 1)
	assert.Error(err)
	_, err = MultinomialN(rng, []float64{1, -1}, 1)
	assert.Error(err)
}

func TestMultinomialNDeterministic(t *testing.T) {
	assert := assert.New(t)

	w := []float64{0.25, 0.25, 0.5}
	a, err := MultinomialN(rand.New(rand.NewSource(42)), w, 100)
	assert.NoError(err)
	b, err := MultinomialN(rand.New(rand.NewSource(42)), w, 100)
	assert.NoError(err)
	assert.Equal(a, b)
}

func TestMvn(t *testing.T) {
	assert := assert.New(t)
	rng := rand.New(rand.NewSource(3))

	// covariance [[4 2] [2 2]]
	var chol mat.Cholesky
	ok := chol.Factorize(mat.NewSymDense(2, []float64{4.0, 2.0, 2.0, 2.0}))
	assert.True(ok)

	m := NewMvn(rng, &chol)
	mean := mat.NewVecDense(2, []float64{1.0, -1.0})

	n := 20000
	xs := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x, err := m.Draw(mean)
		assert.NoError(err)
		xs.SetRow(i, []float64{x.AtVec(0), x.AtVec(1)})
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, xs, nil)
	assert.InDelta(4.0, cov.At(0, 0), 0.2)
	assert.InDelta(2.0, cov.At(0, 1), 0.1)
	assert.InDelta(2.0, cov.At(1, 1), 0.1)
	assert.InDelta(1.0, stat.Mean(mat.Col(nil, 0, xs), nil), 0.05)
	assert.InDelta(-1.0, stat.Mean(mat.Col(nil, 1, xs), nil), 0.05)

	_, err := m.Draw(mat.NewVecDense(3, nil))
	assert.Error(err)
}

func TestMvnDeterministic(t *testing.T) {
	assert := assert.New(t)

	var chol mat.Cholesky
	assert.True(chol.Factorize(mat.NewSymDense(1, []float64{0.5})))
	mean := mat.NewVecDense(1, []float64{2.0})

	draw := func() []float64 {
		m := NewMvn(rand.New(rand.NewSource(9)), &chol)
		out := make([]float64, 10)
		for i := range out {
			x, err := m.Draw(mean)
			assert.NoError(err)
			out[i] = x.AtVec(0)
		}
		return out
	}

	assert.Equal(draw(), draw())
}

func TestWithCovN(t *testing.T) {
	assert := assert.New(t)
	rng := rand.New(rand.NewSource(5))

	cov := mat.NewSymDense(2, []float64{1.0, 0.5, 0.5, 2.0})
	x, err := WithCovN(rng, cov, 20000)
	assert.NoError(err)
	r, c := x.Dims()
	assert.Equal(2, r)
	assert.Equal(20000, c)

	var got mat.SymDense
	stat.CovarianceMatrix(&got, x.T(), nil)
	assert.True(mat.EqualApprox(cov, &got, 0.1))

	// zero covariance yields zero draws
	x, err = WithCovN(rng, mat.NewSymDense(2, nil), 3)
	assert.NoError(err)
	assert.True(mat.Equal(mat.NewDense(2, 3, nil), x))

	// singular covariance draws stay on its range
	x, err = WithCovN(rng, mat.NewSymDense(2, []float64{1, 1, 1, 1}), 100)
	assert.NoError(err)
	for c := 0; c < 100; c++ {
		assert.InDelta(x.At(0, c), x.At(1, c), 1e-9)
	}

	_, err = WithCovN(rng, mat.NewSymDense(2, []float64{-1, 0, 0, 1}), 3)
	assert.Error(err)

	_, err = WithCovN(rng, cov, 0)
	assert.Error(err)
}
