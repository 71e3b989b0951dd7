package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var plotPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the filter once and print parameter estimates",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := runLogger()
		logger.WithField("seed", seed).Info("starting run")

		est, err := simulate(seed, logger)
		if err != nil {
			return err
		}

		for _, s := range est {
			fmt.Printf("t=%3d theta=%8.4f sd=%8.4f ess=%8.2f\n", s.t, s.mean, s.sd, s.ess)
		}

		if plotPath != "" {
			if err := plotSteps(est, plotPath); err != nil {
				return fmt.Errorf("failed to plot estimates: %w", err)
			}
			logger.WithField("path", plotPath).Info("saved plot")
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&plotPath, "plot", "o", "", "save parameter estimate plot to file (png, svg, pdf)")
}

// plotSteps plots parameter estimates with a 2 standard deviation band
func plotSteps(steps []step, path string) error {
	mean := make(plotter.XYs, len(steps))
	lo := make(plotter.XYs, len(steps))
	hi := make(plotter.XYs, len(steps))
	truth := make(plotter.XYs, len(steps))
	for i, s := range steps {
		x := float64(s.t)
		mean[i] = plotter.XY{X: x, Y: s.mean}
		lo[i] = plotter.XY{X: x, Y: s.mean - 2*s.sd}
		hi[i] = plotter.XY{X: x, Y: s.mean + 2*s.sd}
		truth[i] = plotter.XY{X: x, Y: theta}
	}

	p := plot.New()
	p.Title.Text = "Liu-West parameter estimate"
	p.X.Label.Text = "t"
	p.Y.Label.Text = "theta"

	if err := plotutil.AddLines(p,
		"estimate", mean,
		"-2 sd", lo,
		"+2 sd", hi,
		"truth", truth); err != nil {
		return err
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
