package particle

import (
	filter "github.com/marco-hrlic/go-smc"
	"gonum.org/v1/gonum/mat"
)

// Particle is Particle Filter
type Particle interface {
	// filter.Filter is dynamical system filter
	filter.Filter
	// NumParticles returns the number of filter particles
	NumParticles() int
	// Particles returns filter state particles stored in matrix columns
	Particles() mat.Matrix
	// Weights returns particle weights
	Weights() mat.Vector
}
