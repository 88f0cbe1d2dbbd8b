package commands

import (
	"io"

	"github.com/spf13/cobra"

	"emissions/internal/dashboard"
	"emissions/internal/models"
	"emissions/internal/render"
)

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render PNG charts",
	}
	cmd.AddCommand(lineChartCmd(), sectorChartCmd())
	return cmd
}

func lineChartCmd() *cobra.Command {
	var (
		df   datasetFlags
		mode string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Emissions over time, one line per country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := dashboard.ParseMode(mode)
			if err != nil {
				return err
			}
			return writeFile(cmd, &df, out, func(w io.Writer, ds *models.Dataset) error {
				return render.LineChart(w, ds, m)
			})
		},
	}
	df.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", string(dashboard.ModeTotal), "total or perCapita")
	cmd.Flags().StringVarP(&out, "out", "o", "line.png", "output file")
	return cmd
}

func sectorChartCmd() *cobra.Command {
	var (
		df   datasetFlags
		year int
		out  string
	)
	cmd := &cobra.Command{
		Use:   "sectors",
		Short: "Stacked sector breakdown per country for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeFile(cmd, &df, out, func(w io.Writer, ds *models.Dataset) error {
				y := year
				if !cmd.Flags().Changed("year") {
					y = lastYear(ds)
				}
				return render.SectorChart(w, ds, y)
			})
		},
	}
	df.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "year to show (default the last one)")
	cmd.Flags().StringVarP(&out, "out", "o", "sectors.png", "output file")
	return cmd
}

func reportCmd() *cobra.Command {
	var (
		df   datasetFlags
		year int
		out  string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a self-contained HTML report for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeFile(cmd, &df, out, func(w io.Writer, ds *models.Dataset) error {
				y := year
				if !cmd.Flags().Changed("year") {
					y = lastYear(ds)
				}
				return render.Report(w, ds, y)
			})
		},
	}
	df.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "year to report on (default the last one)")
	cmd.Flags().StringVarP(&out, "out", "o", "report.html", "output file")
	return cmd
}

// writeFile builds the dataset, then renders it into out.
func writeFile(cmd *cobra.Command, df *datasetFlags, out string, fn func(io.Writer, *models.Dataset) error) error {
	ds, err := df.dataset(cmd)
	if err != nil {
		return err
	}
	w, err := output(cmd, out)
	if err != nil {
		return err
	}
	if err := fn(w, ds); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if out != "-" {
		cmd.PrintErrf("wrote %s\n", out)
	}
	return nil
}
