// Package commands implements the emissions CLI.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"emissions/internal/app"
	"emissions/internal/config"
	"emissions/internal/engine"
	"emissions/internal/models"
)

var (
	configPath string
	cfg        *config.Config
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "emissions",
		Short:        "Synthetic BRICS emission series, charts and reports",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			lvl, _ := config.ParseLevel(c.LogLevel)
			log.SetLevel(lvl)
			cfg = c
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("EMISSIONS_CONFIG"), "YAML or JSON config file (or EMISSIONS_CONFIG)")

	root.AddCommand(generateCmd(), exportCmd(), chartCmd(), reportCmd(), ensembleCmd(), serveCmd())
	return root
}

// datasetFlags selects and seeds the dataset a command works on.
type datasetFlags struct {
	seed      uint64
	noNoise   bool
	from, to  int
	countries []string
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	f.registerNoise(cmd)
	cmd.Flags().IntVar(&f.from, "from", engine.FirstYear, "first year")
	cmd.Flags().IntVar(&f.to, "to", engine.LastYear, "last year")
	cmd.Flags().StringSliceVar(&f.countries, "countries", nil, "comma-separated countries (default all)")
}

// registerNoise adds only --seed and --no-noise.
func (f *datasetFlags) registerNoise(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "replay the noise stream of this seed")
	cmd.Flags().BoolVar(&f.noNoise, "no-noise", false, "disable the random noise factor")
}

// app applies the flag overrides to the loaded config.
func (f *datasetFlags) app(cmd *cobra.Command) *app.App {
	c := *cfg
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		c.Seed = &seed
	}
	if f.noNoise {
		c.Noise = false
	}
	return app.New(&c)
}

func (f *datasetFlags) dataset(cmd *cobra.Command) (*models.Dataset, error) {
	a := f.app(cmd)
	selecting := cmd.Flags().Changed("from") || cmd.Flags().Changed("to") || cmd.Flags().Changed("countries")
	if a.Gen == nil {
		if selecting {
			return nil, fmt.Errorf("--from, --to and --countries need synthetic data, not %s", a.Config.DataFile)
		}
		return a.Dataset()
	}
	names := make([]string, 0, len(f.countries))
	for _, n := range f.countries {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return a.Gen.Select(f.from, f.to, names...)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// output opens path for writing; "" and "-" mean the command's stdout.
func output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

// lastYear is the default --year.
func lastYear(ds *models.Dataset) int {
	if len(ds.Years) == 0 {
		return engine.LastYear
	}
	return ds.Years[len(ds.Years)-1]
}
