package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	trials   int
	parallel int
)

var trialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "Run repeated independent trials and report coverage of the true parameter",
	RunE: func(cmd *cobra.Command, args []string) error {
		if trials <= 0 {
			return fmt.Errorf("invalid number of trials: %d", trials)
		}

		if parallel <= 0 {
			return fmt.Errorf("invalid parallelism: %d", parallel)
		}

		logger := runLogger()
		logger.WithField("trials", trials).Info("starting trials")

		results := make([]step, trials)

		var g errgroup.Group
		g.SetLimit(parallel)
		for i := 0; i < trials; i++ {
			i := i
			g.Go(func() error {
				est, err := simulate(seed+uint64(i), logger.WithField("trial", i))
				if err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
				results[i] = est[len(est)-1]
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		covered := 0
		for i, s := range results {
			ok := math.Abs(s.mean-theta) <= 3*s.sd
			if ok {
				covered++
			}
			fmt.Printf("trial=%3d theta=%8.4f sd=%8.4f covered=%v\n", i, s.mean, s.sd, ok)
		}
		fmt.Printf("coverage: %d/%d (%.1f%%)\n", covered, trials, 100*float64(covered)/float64(trials))

		return nil
	},
}

func init() {
	trialsCmd.Flags().IntVarP(&trials, "trials", "T", 20, "number of trials")
	trialsCmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "number of trials run concurrently")
}
