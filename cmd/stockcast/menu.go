package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/stockcast/analysis"
	"github.com/YuminosukeSato/stockcast/chart"
	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/orchestrator"
)

// menuCmd runs the interactive numbered menu
func (a *app) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu over the loaded inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nSuccessfully loaded inventory data from: %s\n", a.dataPath)
			fmt.Fprintf(out, "\nAvailable columns in the dataset:\n%s\n", strings.Join(ds.Columns(), ", "))
			return a.runMenu(cmd.InOrStdin(), out, ds)
		},
	}
}

type menuItem struct {
	key   string
	label string
	on    bool
}

func menuItems(c analysis.Capabilities) []menuItem {
	return []menuItem{
		{"1", "View Current Inventory Status", true},
		{"2", "Check Low Stock Items", c.LowStock},
		{"3", "Generate Reorder List", c.Reorder},
		{"4", "View Expiring Soon Items", c.Expiring},
		{"5", "Analyze Inventory Turnover", c.Turnover},
		{"6", "Visualize Stock Levels", c.Visualization},
		{"7", "Seasonal Turnover Analysis", c.Seasonal},
		{"8", "Forecast Demand", c.Forecasting},
		{"9", "Exit", true},
	}
}

// runMenu reads choices from in until "9" or end of input. Errors of a
// single action are printed and the loop continues.
func (a *app) runMenu(in io.Reader, out io.Writer, ds *dataset.Dataset) error {
	items := menuItems(analysis.DetectCapabilities(ds))
	enabled := make(map[string]bool, len(items))
	for _, it := range items {
		enabled[it.key] = it.on
	}

	scanner := bufio.NewScanner(in)
	prompt := func(msg string) (string, bool) {
		fmt.Fprint(out, msg)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		fmt.Fprintln(out, "\n"+rule)
		fmt.Fprintln(out, "Inventory Management System")
		fmt.Fprintln(out, rule)
		for _, it := range items {
			if it.on {
				fmt.Fprintf(out, "%s. %s\n", it.key, it.label)
			}
		}
		fmt.Fprintln(out, rule)

		choice, ok := prompt("Enter your choice (1-9): ")
		if !ok {
			return scanner.Err()
		}
		if choice == "9" {
			fmt.Fprintln(out, "\nExiting Inventory Management System. Goodbye!")
			return nil
		}
		if !enabled[choice] {
			fmt.Fprintln(out, "\nInvalid choice or feature not available with current data. Please try again.")
			continue
		}
		fmt.Fprintln(out)
		if err := a.menuAction(choice, ds, out, prompt); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func (a *app) menuAction(choice string, ds *dataset.Dataset, out io.Writer, prompt func(string) (string, bool)) error {
	switch choice {
	case "1":
		writeStatus(out, ds, analysis.Summarize(ds), 5)
	case "2":
		items, err := analysis.LowStockItems(ds, 7)
		if err != nil {
			return err
		}
		writeLowStock(out, items)
	case "3":
		items, err := analysis.ReorderList(ds)
		if err != nil {
			return err
		}
		writeReorder(out, items)
	case "4":
		items, err := analysis.ExpiringSoon(ds, a.now(), 30)
		if err != nil {
			return err
		}
		writeExpiring(out, items)
	case "5":
		groups, err := analysis.TurnoverStats(ds)
		if err != nil {
			return err
		}
		writeTurnover(out, groups)
	case "6":
		path := filepath.Join(a.outDir, "stock_levels.png")
		if err := chart.StockLevels(ds, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved chart to %s\n", path)
	case "7":
		answer, _ := prompt("Analyze by 1. Weekly or 2. Monthly: ")
		p, err := analysis.ParsePeriod(answer)
		if err != nil {
			return err
		}
		buckets, err := analysis.SeasonalTurnover(ds, p)
		if err != nil {
			return err
		}
		writeSeasonal(out, p, buckets)
		path := filepath.Join(a.outDir, "seasonal_turnover.png")
		if err := chart.SeasonalTurnover(ds, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved chart to %s\n", path)
	case "8":
		return a.runForecast(out, ds, orchestrator.DefaultConfig(), false)
	}
	return nil
}
