package commands

import (
	"github.com/spf13/cobra"

	"emissions/internal/export"
)

func generateCmd() *cobra.Command {
	var df datasetFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print one synthetic dataset as JSON",
		Example: `  emissions generate --seed 42
  emissions generate --no-noise --from 2000 --to 2010 --countries China,India`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := df.dataset(cmd)
			if err != nil {
				return err
			}
			return export.WriteJSON(cmd.OutOrStdout(), ds)
		},
	}
	df.register(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		df     datasetFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset as csv, json, yaml or arrow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			ds, err := df.dataset(cmd)
			if err != nil {
				return err
			}
			w, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := export.Write(w, ds, f); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	df.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, json, yaml or arrow")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	return cmd
}
