package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Base is a basic filter estimate
type Base struct {
	val *mat.VecDense
	cov *mat.SymDense
}

// NewBase returns base estimate with value val and zero covariance
func NewBase(val mat.Vector) (*Base, error) {
	if val == nil || val.Len() == 0 {
		return nil, fmt.Errorf("invalid estimate value")
	}

	return NewBaseWithCov(val, mat.NewSymDense(val.Len(), nil))
}

// NewBaseWithCov returns base estimate with value val and covariance cov.
// It returns error if the covariance dimension does not match val.
func NewBaseWithCov(val mat.Vector, cov mat.Symmetric) (*Base, error) {
	if val == nil || val.Len() == 0 {
		return nil, fmt.Errorf("invalid estimate value")
	}

	if cov.SymmetricDim() != val.Len() {
		return nil, fmt.Errorf("invalid covariance dimension: %d", cov.SymmetricDim())
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &Base{
		val: v,
		cov: c,
	}, nil
}

// Val returns estimate value
func (b *Base) Val() mat.Vector {
	val := &mat.VecDense{}
	val.CloneFromVec(b.val)

	return val
}

// Cov returns estimate covariance
func (b *Base) Cov() mat.Symmetric {
	cov := mat.NewSymDense(b.cov.SymmetricDim(), nil)
	cov.CopySym(b.cov)

	return cov
}
