package lw

import (
	"fmt"

	filter "github.com/marco-hrlic/go-smc"
	prand "github.com/marco-hrlic/go-smc/rand"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Initializer initializes filter particles.
// x and theta hold state and parameter particles in their columns. On entry
// states are zero and parameters are set to the model parameter vector.
type Initializer interface {
	Init(rng *rand.Rand, x, theta *mat.Dense) error
}

// ZeroInit leaves the particles in the state they are created in by New.
type ZeroInit struct{}

// Init implements Initializer
func (ZeroInit) Init(rng *rand.Rand, x, theta *mat.Dense) error {
	return nil
}

// Prior draws particles from Gaussian distributions.
// A nil State or Params leaves the corresponding particles unchanged.
type Prior struct {
	// State is the distribution of initial state particles
	State filter.InitCond
	// Params is the distribution of initial parameter particles
	Params filter.InitCond
}

// Init implements Initializer
func (p *Prior) Init(rng *rand.Rand, x, theta *mat.Dense) error {
	if p.State != nil {
		if err := draw(rng, x, p.State); err != nil {
			return fmt.Errorf("failed to initialize state particles: %w", err)
		}
	}

	if p.Params != nil {
		if err := draw(rng, theta, p.Params); err != nil {
			return fmt.Errorf("failed to initialize parameter particles: %w", err)
		}
	}

	return nil
}

// draw replaces columns of dst with draws centered around ic.State()
func draw(rng *rand.Rand, dst *mat.Dense, ic filter.InitCond) error {
	rows, cols := dst.Dims()
	if ic.State().Len() != rows || ic.Cov().SymmetricDim() != rows {
		return fmt.Errorf("%w: initial condition dimension %d, expected %d", filter.ErrDimension, ic.State().Len(), rows)
	}

	x, err := prand.WithCovN(rng, ic.Cov(), cols)
	if err != nil {
		return err
	}

	state := ic.State()
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			dst.Set(r, c, x.At(r, c)+state.AtVec(r))
		}
	}

	return nil
}
