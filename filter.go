package filter

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Model is a general continuous state hidden Markov model.
// Its transition and observation densities need not be linear or Gaussian.
type Model interface {
	// StateDim returns the dimension of the latent state
	StateDim() int
	// ObsDim returns the dimension of a single observation
	ObsDim() int
	// VectorizeParams returns model parameters packed in a vector.
	// If minimal is true only the free parameters are returned.
	VectorizeParams(minimal bool) mat.Vector
	// PredictMean returns the mean of the state at time t given state x at time t-1
	// and the parameter vector theta.
	PredictMean(x mat.Vector, t int, theta mat.Vector) (mat.Vector, error)
	// LogObsDensity returns log density of observation z given state x at time t.
	// It returns math.Inf(-1) if z can not be observed from x.
	LogObsDensity(z, x mat.Vector, t int, theta mat.Vector) float64
	// SimulateTransition draws the state at time t+1 given state x at time t.
	SimulateTransition(rng *rand.Rand, x mat.Vector, t int, theta mat.Vector) (mat.Vector, error)
}

// Filter is a sequential dynamical system filter
type Filter interface {
	// Update incorporates observation z made at time t
	Update(rng *rand.Rand, z mat.Vector, t int) error
}

// Estimate is dynamical system filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// InitCond is initial condition of a filter
type InitCond interface {
	// State returns initial state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}
