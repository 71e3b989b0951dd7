package lw

import (
	"fmt"

	filter "github.com/marco-hrlic/go-smc"
	"github.com/marco-hrlic/go-smc/estimate"
	"github.com/marco-hrlic/go-smc/particle"
	prand "github.com/marco-hrlic/go-smc/rand"
	"github.com/marco-hrlic/go-smc/smooth"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

var _ particle.Particle = (*LW)(nil)

// LW is a Liu-West auxiliary particle filter which learns model state and
// static model parameters simultaneously.
// At each update a kernel density estimate of the parameter particles is used
// to propose new parameter values. The kernel helps prevent particle collapse.
// For more information see:
// Liu, J. and West, M. (2001) Combined parameter and state estimation in simulation-based filtering.
type LW struct {
	// model is the filtered model; it's never modified by the filter
	model filter.Model
	// n is the number of particles
	n int
	// nx, ny and np are state, observation and parameter dimensions
	nx, ny, np int
	// kernel is parameter kernel smoother
	kernel *smooth.Kernel
	// reg regularizes degenerate parameter clouds; it may be nil
	reg smooth.Regularizer
	// gen is the current particle generation
	gen *generation
	// log is filter logger
	log log.FieldLogger
}

// New creates new Liu-West filter of model m with n particles and returns it.
// State particles are initialized to zero vectors and parameter particles
// to the model parameter vector. Use Initialize to start from a prior instead.
// New returns error wrapping filter.ErrInvalidConfig if n is not positive, if
// the kernel scale factor is not strictly between 0 and 1 or if the model has invalid dimensions.
func New(m filter.Model, n int, opts ...Option) (*LW, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", filter.ErrInvalidConfig)
	}

	if n <= 0 {
		return nil, fmt.Errorf("%w: invalid particle count: %d", filter.ErrInvalidConfig, n)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	kernel, err := smooth.NewKernel(o.h)
	if err != nil {
		return nil, err
	}

	theta := m.VectorizeParams(true)
	nx, ny := m.StateDim(), m.ObsDim()
	if nx <= 0 || ny <= 0 || theta == nil || theta.Len() == 0 {
		return nil, fmt.Errorf("%w: invalid model dimensions: state %d, observation %d", filter.ErrInvalidConfig, nx, ny)
	}
	np := theta.Len()

	gen := newGeneration(nx, np, n)
	for c := 0; c < n; c++ {
		gen.theta.ColView(c).(*mat.VecDense).CopyVec(theta)
	}

	return &LW{
		model:  m,
		n:      n,
		nx:     nx,
		ny:     ny,
		np:     np,
		kernel: kernel,
		reg:    o.reg,
		gen:    gen,
		log:    o.logger,
	}, nil
}

// Initialize replaces filter particles with particles created by init.
// Particle log weights are reset to zero.
// It returns error if init fails, in which case the filter particles are left unchanged.
func (f *LW) Initialize(rng *rand.Rand, init Initializer) error {
	if rng == nil {
		return fmt.Errorf("%w: nil random generator", filter.ErrInvalidConfig)
	}

	if init == nil {
		return fmt.Errorf("%w: nil initializer", filter.ErrInvalidConfig)
	}

	next := newGeneration(f.nx, f.np, f.n)
	theta := f.model.VectorizeParams(true)
	for c := 0; c < f.n; c++ {
		next.theta.ColView(c).(*mat.VecDense).CopyVec(theta)
	}

	if err := init.Init(rng, next.x, next.theta); err != nil {
		return err
	}

	f.gen = next

	return nil
}

// Update incorporates observation z made at time t into the filter particles.
// The state transition covers times t-1 to t.
// Update either installs a complete new particle generation or returns error
// and leaves the current generation untouched. If the parameter cloud is
// degenerate and no regularizer is configured it returns *filter.CloudError.
func (f *LW) Update(rng *rand.Rand, z mat.Vector, t int) error {
	if rng == nil {
		return fmt.Errorf("%w: nil random generator", filter.ErrInvalidConfig)
	}

	if z == nil || z.Len() != f.ny {
		return fmt.Errorf("%w: invalid observation size", filter.ErrDimension)
	}

	if t < 0 {
		return fmt.Errorf("%w: %d", filter.ErrInvalidTime, t)
	}

	f.log.WithField("time", t).Debug("updating particles")

	g := f.gen

	// kernel density estimate of the parameter cloud
	cloud, err := f.kernel.Stats(g.theta)
	if err != nil {
		return err
	}

	m, err := f.kernel.Shrink(g.theta, cloud.Mean)
	if err != nil {
		return err
	}

	// auxiliary weights use the predicted state mean in place of a state draw
	xPred := mat.NewDense(f.nx, f.n, nil)
	auxDens := make([]float64, f.n)
	auxw := make([]float64, f.n)
	for c := 0; c < f.n; c++ {
		mean, err := f.model.PredictMean(g.x.ColView(c), t, m.ColView(c))
		if err != nil {
			return fmt.Errorf("particle state prediction failed: %w", err)
		}
		if mean.Len() != f.nx {
			return fmt.Errorf("%w: predicted state size %d, expected %d", filter.ErrDimension, mean.Len(), f.nx)
		}
		xPred.ColView(c).(*mat.VecDense).CopyVec(mean)

		auxDens[c] = f.model.LogObsDensity(z, xPred.ColView(c), t, m.ColView(c))
		auxw[c] = g.logw[c] + auxDens[c]
	}

	w, err := normalize(auxw)
	if err != nil {
		return fmt.Errorf("observation at time %d: %w", t, err)
	}

	l, err := f.kernelScale(cloud, t)
	if err != nil {
		return err
	}

	ancestors, err := prand.MultinomialN(rng, w, f.n)
	if err != nil {
		return fmt.Errorf("failed to resample filter particles: %w", err)
	}

	kernel := prand.NewMvn(rng, l)

	// the next generation is allocated separately as particles are drawn with replacement
	next := newGeneration(f.nx, f.np, f.n)
	for c, k := range ancestors {
		theta, err := kernel.Draw(m.ColView(k))
		if err != nil {
			return fmt.Errorf("failed to draw parameter particle: %w", err)
		}

		x, err := f.model.SimulateTransition(rng, g.x.ColView(k), t-1, theta)
		if err != nil {
			return fmt.Errorf("particle state propagation failed: %w", err)
		}
		if x.Len() != f.nx {
			return fmt.Errorf("%w: simulated state size %d, expected %d", filter.ErrDimension, x.Len(), f.nx)
		}

		next.theta.ColView(c).(*mat.VecDense).CopyVec(theta)
		next.x.ColView(c).(*mat.VecDense).CopyVec(x)
		next.logw[c] = f.model.LogObsDensity(z, x, t, theta) - auxDens[k]
	}

	f.gen = next

	return nil
}

// kernelScale returns Cholesky factorization of the parameter kernel covariance.
func (f *LW) kernelScale(cloud *smooth.Cloud, t int) (*mat.Cholesky, error) {
	rank, err := cloud.Rank()
	if err != nil {
		return nil, err
	}

	cov := cloud.Cov
	if rank < f.np {
		if f.reg == nil {
			c := mat.NewSymDense(f.np, nil)
			c.CopySym(cloud.Cov)
			return nil, &filter.CloudError{Time: t, Rank: rank, Cov: c}
		}

		f.log.WithFields(log.Fields{
			"time": t,
			"rank": rank,
		}).Warn("regularizing degenerate parameter cloud")

		if cov, err = f.reg.Regularize(cloud); err != nil {
			return nil, fmt.Errorf("failed to regularize parameter cloud: %w", err)
		}
	}

	l, err := f.kernel.Scale(cov)
	if err != nil {
		return nil, fmt.Errorf("parameter kernel at time %d: %w", t, err)
	}

	return l, nil
}

// NumParticles returns the number of filter particles
func (f *LW) NumParticles() int {
	return f.n
}

// KernelScale returns the kernel scale factor
func (f *LW) KernelScale() float64 {
	return f.kernel.H()
}

// Particles returns state particles stored in matrix columns
func (f *LW) Particles() mat.Matrix {
	x := &mat.Dense{}
	x.CloneFrom(f.gen.x)

	return x
}

// Params returns parameter particles stored in matrix columns
func (f *LW) Params() mat.Matrix {
	theta := &mat.Dense{}
	theta.CloneFrom(f.gen.theta)

	return theta
}

// LogWeights returns unnormalized particle log weights
func (f *LW) LogWeights() []float64 {
	logw := make([]float64, len(f.gen.logw))
	copy(logw, f.gen.logw)

	return logw
}

// Weights returns normalized particle weights.
// If no particle has a positive weight it returns a zero vector.
func (f *LW) Weights() mat.Vector {
	w, err := normalize(f.gen.logw)
	if err != nil {
		return mat.NewVecDense(f.n, nil)
	}

	return mat.NewVecDense(f.n, w)
}

// ESS returns effective sample size of the particles.
func (f *LW) ESS() float64 {
	w, err := normalize(f.gen.logw)
	if err != nil {
		return 0
	}

	sum := 0.0
	for _, v := range w {
		sum += v * v
	}

	return 1 / sum
}

// StateEstimate returns weighted mean and covariance of state particles
func (f *LW) StateEstimate() (filter.Estimate, error) {
	return f.estimate(f.gen.x)
}

// ParamEstimate returns weighted mean and covariance of parameter particles
func (f *LW) ParamEstimate() (filter.Estimate, error) {
	return f.estimate(f.gen.theta)
}

func (f *LW) estimate(x *mat.Dense) (filter.Estimate, error) {
	w, err := normalize(f.gen.logw)
	if err != nil {
		return nil, err
	}

	mean, cov := weighted(x, w)

	est, err := estimate.NewBaseWithCov(mean, cov)
	if err != nil {
		return nil, err
	}

	return est, nil
}
