package sim

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// AR1 is a one dimensional linear Gaussian state space model:
//
//	x[t] = Phi*x[t-1] + theta + N(0, Q)
//	y[t] = x[t] + N(0, R)
//
// theta is the only model parameter, the remaining coefficients are known.
type AR1 struct {
	// Phi is the autoregressive coefficient
	Phi float64
	// Theta is the state drift
	Theta float64
	// Q is state transition variance
	Q float64
	// R is observation variance
	R float64
}

// NewAR1 creates new AR1 model and returns it.
// It returns error if either of the variances is not positive.
func NewAR1(phi, theta, q, r float64) (*AR1, error) {
	if q <= 0 || r <= 0 {
		return nil, fmt.Errorf("invalid model variance: q=%f, r=%f", q, r)
	}

	return &AR1{
		Phi:   phi,
		Theta: theta,
		Q:     q,
		R:     r,
	}, nil
}

// StateDim returns state dimension
func (m *AR1) StateDim() int { return 1 }

// ObsDim returns observation dimension
func (m *AR1) ObsDim() int { return 1 }

// VectorizeParams returns model parameter vector
func (m *AR1) VectorizeParams(minimal bool) mat.Vector {
	return mat.NewVecDense(1, []float64{m.Theta})
}

// PredictMean returns expected state at time t given state x at time t-1
func (m *AR1) PredictMean(x mat.Vector, t int, theta mat.Vector) (mat.Vector, error) {
	if x.Len() != 1 || theta.Len() != 1 {
		return nil, fmt.Errorf("invalid dimensions: state %d, params %d", x.Len(), theta.Len())
	}

	return mat.NewVecDense(1, []float64{m.Phi*x.AtVec(0) + theta.AtVec(0)}), nil
}

// LogObsDensity returns log density of observation z given state x
func (m *AR1) LogObsDensity(z, x mat.Vector, t int, theta mat.Vector) float64 {
	if z.Len() != 1 || x.Len() != 1 {
		return math.Inf(-1)
	}

	n := distuv.Normal{Mu: x.AtVec(0), Sigma: math.Sqrt(m.R)}

	return n.LogProb(z.AtVec(0))
}

// SimulateTransition draws the state at time t+1 given state x at time t
func (m *AR1) SimulateTransition(rng *rand.Rand, x mat.Vector, t int, theta mat.Vector) (mat.Vector, error) {
	mean, err := m.PredictMean(x, t+1, theta)
	if err != nil {
		return nil, err
	}

	n := distuv.Normal{Mu: mean.AtVec(0), Sigma: math.Sqrt(m.Q), Src: rng}

	return mat.NewVecDense(1, []float64{n.Rand()}), nil
}

// Simulate runs the model for steps time steps starting from state x0 and returns
// the simulated states and observations. Element i of either slice is made at time i+1.
func (m *AR1) Simulate(rng *rand.Rand, x0 float64, steps int) ([]float64, []float64, error) {
	if steps <= 0 {
		return nil, nil, fmt.Errorf("invalid number of steps: %d", steps)
	}

	theta := m.VectorizeParams(true)
	obs := distuv.Normal{Mu: 0, Sigma: math.Sqrt(m.R), Src: rng}

	xs := make([]float64, steps)
	ys := make([]float64, steps)

	x := mat.NewVecDense(1, []float64{x0})
	for t := 0; t < steps; t++ {
		xNext, err := m.SimulateTransition(rng, x, t, theta)
		if err != nil {
			return nil, nil, fmt.Errorf("state simulation failed: %v", err)
		}
		xs[t] = xNext.AtVec(0)
		ys[t] = xs[t] + obs.Rand()
		x.SetVec(0, xs[t])
	}

	return xs, ys, nil
}
