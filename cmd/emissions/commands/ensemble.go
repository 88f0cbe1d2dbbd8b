package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"emissions/internal/engine"
	"emissions/internal/export"
	"emissions/internal/progress"
)

func ensembleCmd() *cobra.Command {
	var (
		df      datasetFlags
		runs    int
		workers int
		out     string
	)
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Run many noisy realisations and print per-year mean/min/max bands",
		Long: `Run many noisy realisations and print per-year mean/min/max bands.

Run i replays seed+i, so the same --seed gives the same bands.`,
		Example: `  emissions ensemble --runs 500 --seed 1 -o bands.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := df.app(cmd)
			if a.Gen == nil {
				return fmt.Errorf("ensemble needs synthetic data, not %s", a.Config.DataFile)
			}
			if !cmd.Flags().Changed("runs") {
				runs = a.Config.Ensemble.Runs
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.Config.Ensemble.Workers
			}

			var onRun func()
			var bar *progress.Bar
			if progress.Interactive(os.Stderr) {
				bar = progress.New(os.Stderr, runs, "realisations")
				onRun = bar.Increment
			}

			t0 := time.Now()
			ens, err := engine.RunEnsemble(cmd.Context(), a.Gen, runs, workers, onRun)
			if err != nil {
				return err
			}
			if bar != nil {
				bar.Complete(fmt.Sprintf("%d realisations in %v", runs, time.Since(t0).Round(time.Millisecond)))
			}
			log.Debugf("ensemble: %d runs, %d workers, %v", runs, workers, time.Since(t0))

			w, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := export.WriteJSON(w, ens); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	df.registerNoise(cmd)
	cmd.Flags().IntVar(&runs, "runs", 100, "number of realisations (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers, 0 = one per CPU")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	return cmd
}
