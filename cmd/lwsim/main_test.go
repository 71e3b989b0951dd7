package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	assert := assert.New(t)

	particles, scale, steps, theta, guess = 100, 0.1, 10, 2.0, 1.0
	logger, _ := test.NewNullLogger()

	a, err := simulate(1, logger)
	require.NoError(t, err)
	assert.Len(a, 10)
	for i, s := range a {
		assert.Equal(i+1, s.t)
		assert.True(s.ess > 0 && s.ess <= 100.0+1e-9)
		assert.True(s.sd >= 0)
	}

	// runs are reproducible given a seed
	b, err := simulate(1, logger)
	require.NoError(t, err)
	assert.Equal(a, b)

	particles = 0
	_, err = simulate(1, logger)
	assert.Error(err)
}

func TestPlotSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theta.svg")

	err := plotSteps([]step{
		{t: 1, mean: 1.0, sd: 0.5},
		{t: 2, mean: 1.5, sd: 0.3},
		{t: 3, mean: 1.9, sd: 0.2},
	}, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}
