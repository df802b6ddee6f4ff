// Command stockcast is the inventory analytics CLI: stock reports, reorder
// suggestions, charts and a random-forest demand forecast.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/log"
)

// app holds the persistent flags shared by every subcommand.
type app struct {
	dataPath string
	sheet    string
	logLevel string
	outDir   string

	now func() time.Time
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return (&app{now: time.Now}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stockcast",
		Short: "Inventory analytics and demand forecasting",
		Long: `stockcast loads an inventory table (.csv or .xlsx) and reports low stock,
reorder suggestions, expirations, turnover and seasonal sales. It can also
train a random-forest model and forecast demand for the coming days.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.SetupLogger(a.logLevel, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.dataPath, "data", "d", "inventory.csv", "Inventory data file (.csv or .xlsx)")
	rootCmd.PersistentFlags().StringVar(&a.sheet, "sheet", "", "Worksheet name for .xlsx files (default: first sheet)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&a.outDir, "out", "o", ".", "Directory for generated charts")

	rootCmd.AddCommand(a.statusCmd())
	rootCmd.AddCommand(a.lowStockCmd())
	rootCmd.AddCommand(a.reorderCmd())
	rootCmd.AddCommand(a.demandCmd())
	rootCmd.AddCommand(a.expiringCmd())
	rootCmd.AddCommand(a.turnoverCmd())
	rootCmd.AddCommand(a.seasonalCmd())
	rootCmd.AddCommand(a.plotCmd())
	rootCmd.AddCommand(a.forecastCmd())
	rootCmd.AddCommand(a.menuCmd())

	return rootCmd
}

func (a *app) load() (*dataset.Dataset, error) {
	opts := []dataset.LoadOption{}
	if a.sheet != "" {
		opts = append(opts, dataset.WithSheet(a.sheet))
	}
	return dataset.Load(a.dataPath, opts...)
}
