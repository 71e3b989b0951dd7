package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	particles int
	scale     float64
	steps     int
	seed      uint64
	theta     float64
	guess     float64
	logLevel  string
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

var rootCmd = &cobra.Command{
	Use:   "lwsim",
	Short: "Liu-West particle filter simulations",
	Long: `Runs the Liu-West particle filter on simulated data of a one dimensional
linear Gaussian model x[t] = 0.5*x[t-1] + theta + N(0,1), y[t] = x[t] + N(0,1)
and reports how well the filter learns theta.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(level)

		return nil
	},
}

func main() {
	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&particles, "particles", "n", 200, "number of filter particles")
	flags.Float64VarP(&scale, "kernel-scale", "k", 0.1, "kernel scale factor in (0,1)")
	flags.IntVarP(&steps, "steps", "s", 50, "number of observations")
	flags.Uint64Var(&seed, "seed", 1, "random seed")
	flags.Float64Var(&theta, "theta", 2.0, "true model parameter")
	flags.Float64Var(&guess, "guess", 1.0, "prior mean of the model parameter")
	flags.StringVar(&logLevel, "log-level", "info", "log level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(trialsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runLogger returns a logger tagged with a new run id
func runLogger() *log.Entry {
	return log.WithField("run", uuid.New().String())
}
