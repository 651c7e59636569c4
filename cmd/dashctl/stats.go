package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stockDashboard/internal/chart"
	"stockDashboard/internal/dashboard"
)

var (
	statsMarket string
	statsSector string
	statsPeriod string
	statsStart  string
	statsEnd    string
	statsRF     float64
	statsChart  string
	statsOut    string
)

func init() {
	statsCmd.Flags().StringVar(&statsMarket, "market", "", "Market whose companies are matched first")
	statsCmd.Flags().StringVar(&statsSector, "sector", "", "Sector whose companies are matched first")
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "", "Period such as 1mo, 6mo, 1y, 5y (default from DEFAULT_PERIOD)")
	statsCmd.Flags().StringVar(&statsStart, "start", "", "First day, YYYY-MM-DD; overrides --period")
	statsCmd.Flags().StringVar(&statsEnd, "end", "", "Last day, YYYY-MM-DD")
	statsCmd.Flags().Float64Var(&statsRF, "rf", -1, "Annual risk-free rate (default from RISK_FREE_RATE)")
	statsCmd.Flags().StringVar(&statsChart, "chart", "prices", "Chart to write with --out: prices, returns, correlation, allocation, portfolio")
	statsCmd.Flags().StringVarP(&statsOut, "out", "o", "", "Write the chart PNG to this file")

	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats NAME [NAME...]",
	Short: "Per-company statistics, equal-weight portfolio and correlation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := dashboard.State{Market: statsMarket, Sector: statsSector, Period: statsPeriod, Names: args}
		if err := applyWindow(&st, statsStart, statsEnd, statsRF); err != nil {
			return err
		}
		return runAnalysis(cmd, st, statsChart, statsOut, printStats)
	},
}

// applyWindow copies the shared date and rate flags into st.
func applyWindow(st *dashboard.State, start, end string, rf float64) error {
	if start != "" {
		t, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		st.Start = &t
	}
	if end != "" {
		t, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		st.End = &t
	}
	if rf >= 0 {
		st.RiskFreeRate = &rf
	}
	return nil
}

// runAnalysis computes st, prints it with show and optionally writes a chart.
func runAnalysis(cmd *cobra.Command, st dashboard.State, chartName, out string, show func(*cobra.Command, dashboard.Report) error) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if st.Period == "" && st.Start == nil {
		st.Period = a.Config.DefaultPeriod
	}
	res, err := a.Dashboard.Analyze(cmd.Context(), st)
	if err != nil {
		return err
	}
	if err := show(cmd, res.Report()); err != nil {
		return err
	}

	if out == "" {
		return nil
	}
	kind, err := chart.ParseKind(chartName)
	if err != nil {
		return err
	}
	img, err := a.Charts.Render(kind, res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s chart to %s\n", kind, out)
	return nil
}

func printStats(cmd *cobra.Command, rep dashboard.Report) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), rep)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s  %s to %s\n\n", rep.Range, rep.From, rep.To)
	statsTable(w, rep.Stats)
	if len(rep.Correlation) > 0 {
		fmt.Fprintln(w)
		correlationTable(w, rep.Symbols, rep.Correlation)
	}
	return nil
}
