package filter

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidConfig is returned when a filter is configured with invalid values
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDegenerateCloud is returned when the parameter particle cloud covariance is rank deficient
	ErrDegenerateCloud = errors.New("degenerate parameter cloud")

	// ErrNonPosDefCov is returned when a covariance matrix fails Cholesky factorization
	ErrNonPosDefCov = errors.New("covariance is not positive definite")

	// ErrDimension is returned when vector dimensions don't match the model
	ErrDimension = errors.New("dimension mismatch")

	// ErrInvalidTime is returned when a negative observation time is given
	ErrInvalidTime = errors.New("invalid observation time")

	// ErrDegenerateWeights is returned when no particle can explain an observation
	ErrDegenerateWeights = errors.New("degenerate particle weights")
)

// CloudError reports a rank deficient parameter cloud at a given step.
// The filter particles are left untouched, so the caller may regularize
// the cloud and retry the step.
type CloudError struct {
	// Time is the observation time of the failed step
	Time int
	// Rank is the numerical rank of the cloud covariance
	Rank int
	// Cov is the sample covariance of the parameter cloud
	Cov *mat.SymDense
}

// Error implements the error interface
func (e *CloudError) Error() string {
	return fmt.Sprintf("%v at time %d: rank %d of %d", ErrDegenerateCloud, e.Time, e.Rank, e.Cov.SymmetricDim())
}

// Unwrap returns ErrDegenerateCloud
func (e *CloudError) Unwrap() error {
	return ErrDegenerateCloud
}
