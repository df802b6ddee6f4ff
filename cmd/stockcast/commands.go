package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/stockcast/analysis"
	"github.com/YuminosukeSato/stockcast/chart"
	"github.com/YuminosukeSato/stockcast/orchestrator"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// statusCmd shows a dataset overview
func (a *app) statusCmd() *cobra.Command {
	var head int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current inventory status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			writeStatus(cmd.OutOrStdout(), ds, analysis.Summarize(ds), head)
			return nil
		},
	}
	cmd.Flags().IntVar(&head, "head", 5, "Number of rows to preview")
	return cmd
}

// lowStockCmd lists items that need attention
func (a *app) lowStockCmd() *cobra.Command {
	var days float64
	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List items at or below their reorder level",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			items, err := analysis.LowStockItems(ds, days)
			if err != nil {
				return err
			}
			writeLowStock(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().Float64Var(&days, "threshold-days", 7, "Days-until-stockout threshold")
	return cmd
}

// reorderCmd prints the reorder list and seasonal suggestions
func (a *app) reorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder",
		Short: "Generate the reorder list with suggested quantities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			items, err := analysis.ReorderList(ds)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			writeReorder(w, items)
			if seasonal, ok := analysis.SeasonalReorder(ds); ok {
				writeSeasonalReorder(w, seasonal)
			}
			return nil
		},
	}
}

// demandCmd estimates demand for one product from its sales volume
func (a *app) demandCmd() *cobra.Command {
	var (
		product string
		days    int
	)
	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Estimate demand for a product over the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			demand, ok := analysis.PredictFutureDemand(ds, product, days)
			if !ok {
				return errors.Newf("no sales data for product %q", product)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Estimated demand for %s over %d days: %d units\n", product, days, demand)
			return nil
		},
	}
	cmd.Flags().StringVarP(&product, "product", "p", "", "Product_ID to estimate")
	cmd.Flags().IntVar(&days, "days", 30, "Number of days")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

// expiringCmd lists items expiring soon
func (a *app) expiringCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List items expiring within the given number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			items, err := analysis.ExpiringSoon(ds, a.now(), days)
			if err != nil {
				return err
			}
			writeExpiring(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Expiration window in days")
	return cmd
}

// turnoverCmd prints turnover statistics
func (a *app) turnoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "turnover",
		Short: "Analyze inventory turnover by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			groups, err := analysis.TurnoverStats(ds)
			if err != nil {
				return err
			}
			writeTurnover(cmd.OutOrStdout(), groups)
			return nil
		},
	}
}

// seasonalCmd prints weekly or monthly sales by category
func (a *app) seasonalCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Seasonal turnover analysis (weekly or monthly)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := analysis.ParsePeriod(period)
			if err != nil {
				return err
			}
			ds, err := a.load()
			if err != nil {
				return err
			}
			buckets, err := analysis.SeasonalTurnover(ds, p)
			if err != nil {
				return err
			}
			writeSeasonal(cmd.OutOrStdout(), p, buckets)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "weekly", "Bucket width: weekly or monthly")
	return cmd
}

// plotCmd renders inventory charts
func (a *app) plotCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render stock level or seasonal turnover charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			var path string
			switch kind {
			case "stock":
				path = filepath.Join(a.outDir, "stock_levels.png")
				err = chart.StockLevels(ds, path)
			case "seasonal":
				path = filepath.Join(a.outDir, "seasonal_turnover.png")
				err = chart.SeasonalTurnover(ds, path)
			default:
				return errors.NewValidationError("kind", "must be stock or seasonal", kind)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved chart to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "stock", "Chart kind: stock or seasonal")
	return cmd
}

// forecastCmd trains the demand model and forecasts the coming days
func (a *app) forecastCmd() *cobra.Command {
	cfg := orchestrator.DefaultConfig()
	var withChart bool
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Train the demand model and forecast the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			return a.runForecast(cmd.OutOrStdout(), ds, cfg, withChart)
		},
	}
	cmd.Flags().IntVar(&cfg.Horizon, "horizon", cfg.Horizon, "Number of days to forecast")
	cmd.Flags().IntVar(&cfg.TrendWindow, "window", cfg.TrendWindow, "Moving-average window of the trend report")
	cmd.Flags().IntVar(&cfg.NEstimators, "trees", cfg.NEstimators, "Number of trees in the forest")
	cmd.Flags().IntVar(&cfg.MinSamplesLeaf, "min-samples-leaf", cfg.MinSamplesLeaf, "Minimum samples per leaf")
	cmd.Flags().Int64Var(&cfg.RandomState, "seed", cfg.RandomState, "Random seed")
	cmd.Flags().BoolVar(&cfg.FillCategory, "fill-category", cfg.FillCategory, "Annotate future rows with the most frequent category")
	cmd.Flags().BoolVar(&withChart, "chart", false, "Also save forecast.png to the output directory")
	return cmd
}
