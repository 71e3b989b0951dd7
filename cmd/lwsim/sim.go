package main

import (
	"fmt"
	"math"

	"github.com/marco-hrlic/go-smc/particle/lw"
	"github.com/marco-hrlic/go-smc/sim"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	phi = 0.5
	// q and r are state and observation noise variances
	q = 1.0
	r = 1.0
)

// step is the filter parameter estimate after an observation
type step struct {
	t    int
	mean float64
	sd   float64
	ess  float64
}

// simulate generates observations of the true model and runs the filter on them.
func simulate(s uint64, logger log.FieldLogger) ([]step, error) {
	truth, err := sim.NewAR1(phi, theta, q, r)
	if err != nil {
		return nil, err
	}

	_, ys, err := truth.Simulate(rand.New(rand.NewSource(s)), 0.0, steps)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate observations: %w", err)
	}

	model, err := sim.NewAR1(phi, guess, q, r)
	if err != nil {
		return nil, err
	}

	f, err := lw.New(model, particles, lw.WithKernelScale(scale), lw.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create filter: %w", err)
	}

	prior := &lw.Prior{
		State:  sim.NewInitCond(mat.NewVecDense(1, nil), mat.NewSymDense(1, []float64{q})),
		Params: sim.NewInitCond(mat.NewVecDense(1, []float64{guess}), mat.NewSymDense(1, []float64{1.0})),
	}

	// filter randomness is independent of the simulated data
	rng := rand.New(rand.NewSource(^s))
	if err := f.Initialize(rng, prior); err != nil {
		return nil, fmt.Errorf("failed to initialize filter: %w", err)
	}

	out := make([]step, 0, len(ys))
	for i, y := range ys {
		t := i + 1
		if err := f.Update(rng, mat.NewVecDense(1, []float64{y}), t); err != nil {
			return nil, fmt.Errorf("filter update failed: %w", err)
		}

		est, err := f.ParamEstimate()
		if err != nil {
			return nil, err
		}

		out = append(out, step{
			t:    t,
			mean: est.Val().AtVec(0),
			sd:   math.Sqrt(est.Cov().At(0, 0)),
			ess:  f.ESS(),
		})
	}

	return out, nil
}
