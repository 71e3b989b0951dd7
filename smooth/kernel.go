package smooth

import (
	"fmt"
	"math"

	filter "github.com/marco-hrlic/go-smc"
	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultScale is the default kernel scale factor
const DefaultScale = 0.01

// eps is float64 machine epsilon
const eps = 0x1p-52

var _ Smoother = (*Kernel)(nil)

// Cloud holds sufficient statistics of a parameter particle cloud
type Cloud struct {
	// N is the number of particles in the cloud
	N int
	// Mean is the cloud mean
	Mean *mat.VecDense
	// Cov is the cloud sample covariance
	Cov *mat.SymDense
}

// Rank returns numerical rank of the cloud covariance.
// An eigenvalue counts as zero if it is within rounding error of the largest
// eigenvalue or within the error of centering N particles around the cloud mean.
func (c *Cloud) Rank() (int, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(c.Cov, false); !ok {
		return 0, fmt.Errorf("eigendecomposition of cloud covariance failed")
	}
	vals := eig.Values(nil)

	n := float64(c.N)
	if d := float64(len(vals)); d > n {
		n = d
	}

	loc := 0.0
	for i := 0; i < c.Mean.Len(); i++ {
		loc = math.Max(loc, math.Abs(c.Mean.AtVec(i)))
	}
	centering := 2 * n * eps * loc

	tol := math.Max(n*eps*floats.Max(vals), centering*centering)

	rank := 0
	for _, v := range vals {
		if v > tol {
			rank++
		}
	}

	return rank, nil
}

// Kernel is a shrinkage kernel smoother of parameter particles.
// A particle theta is shrunk to a*theta + (1-a)*mean, where a = sqrt(1-h^2),
// and new particles are drawn around the shrunk points with covariance h^2*Cov.
// Shrinkage preserves the mean and covariance of the cloud.
type Kernel struct {
	h float64
	a float64
}

// NewKernel creates new Kernel with kernel scale factor h and returns it.
// It returns error if h is not in the open interval (0,1).
func NewKernel(h float64) (*Kernel, error) {
	if !(h > 0 && h < 1) {
		return nil, fmt.Errorf("%w: kernel scale factor must be strictly between 0 and 1: %f", filter.ErrInvalidConfig, h)
	}

	return &Kernel{
		h: h,
		a: math.Sqrt(1 - h*h),
	}, nil
}

// H returns kernel scale factor
func (k *Kernel) H() float64 {
	return k.h
}

// A returns kernel shrinkage coefficient
func (k *Kernel) A() float64 {
	return k.a
}

// Stats computes mean and sample covariance of parameter particles stored in columns of theta.
// Particles are treated as an unweighted sample.
func (k *Kernel) Stats(theta *mat.Dense) (*Cloud, error) {
	if theta == nil || theta.IsEmpty() {
		return nil, fmt.Errorf("%w: empty parameter cloud", filter.ErrDimension)
	}
	rows, cols := theta.Dims()

	mean, err := matrix.RowsMean(rows, theta)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate cloud mean: %v", err)
	}

	// a single particle has no spread
	if cols == 1 {
		return &Cloud{N: 1, Mean: mat.NewVecDense(rows, mean), Cov: mat.NewSymDense(rows, nil)}, nil
	}

	cov, err := matrix.Cov(theta, "cols")
	if err != nil {
		return nil, fmt.Errorf("failed to calculate covariance matrix: %v", err)
	}

	return &Cloud{
		N:    cols,
		Mean: mat.NewVecDense(rows, mean),
		Cov:  cov,
	}, nil
}

// Shrink returns particles stored in columns of theta shrunk towards mean.
func (k *Kernel) Shrink(theta mat.Matrix, mean mat.Vector) (*mat.Dense, error) {
	rows, cols := theta.Dims()
	if mean.Len() != rows {
		return nil, fmt.Errorf("%w: mean dimension %d, expected %d", filter.ErrDimension, mean.Len(), rows)
	}

	m := mat.NewDense(rows, cols, nil)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			m.Set(r, c, k.a*theta.At(r, c)+(1-k.a)*mean.AtVec(r))
		}
	}

	return m, nil
}

// Scale returns Cholesky factorization of the kernel covariance h^2*cov.
// It returns error if cov is not positive definite.
func (k *Kernel) Scale(cov mat.Symmetric) (*mat.Cholesky, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, filter.ErrNonPosDefCov
	}

	kc := &mat.Cholesky{}
	kc.Scale(k.h*k.h, &chol)

	return kc, nil
}
