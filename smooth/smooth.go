package smooth

import (
	"fmt"

	filter "github.com/marco-hrlic/go-smc"
	"gonum.org/v1/gonum/mat"
)

// Smoother is a kernel density smoother of a parameter particle cloud.
// Parameter particles are stored as matrix columns.
type Smoother interface {
	// Stats returns the sufficient statistics of the parameter cloud
	Stats(theta *mat.Dense) (*Cloud, error)
	// Shrink returns the particles shrunk towards the cloud mean
	Shrink(theta mat.Matrix, mean mat.Vector) (*mat.Dense, error)
	// Scale returns Cholesky factorization of the kernel covariance
	Scale(cov mat.Symmetric) (*mat.Cholesky, error)
}

// Regularizer turns a degenerate cloud covariance into a usable one
type Regularizer interface {
	// Regularize returns a regularized copy of the cloud covariance
	Regularize(c *Cloud) (*mat.SymDense, error)
}

// Ridge regularizes cloud covariance by adding a constant to its diagonal
type Ridge float64

// Regularize returns c.Cov + r*I.
// It returns error if r is not positive.
func (r Ridge) Regularize(c *Cloud) (*mat.SymDense, error) {
	if r <= 0 {
		return nil, fmt.Errorf("%w: ridge must be positive: %f", filter.ErrInvalidConfig, float64(r))
	}

	n := c.Cov.SymmetricDim()
	cov := mat.NewSymDense(n, nil)
	cov.CopySym(c.Cov)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, cov.At(i, i)+float64(r))
	}

	return cov, nil
}
