package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockDashboard/internal/dashboard"
	"stockDashboard/internal/finance"
)

var (
	portStart string
	portEnd   string
	portRF    float64
	portChart string
	portOut   string
)

func init() {
	portfolioCmd.Flags().StringVar(&portStart, "start", "", "First day, YYYY-MM-DD; overrides the period")
	portfolioCmd.Flags().StringVar(&portEnd, "end", "", "Last day, YYYY-MM-DD")
	portfolioCmd.Flags().Float64Var(&portRF, "rf", -1, "Annual risk-free rate (default from RISK_FREE_RATE)")
	portfolioCmd.Flags().StringVar(&portChart, "chart", "portfolio", "Chart to write with --out: portfolio, allocation, prices, returns, correlation")
	portfolioCmd.Flags().StringVarP(&portOut, "out", "o", "", "Write the chart PNG to this file")

	rootCmd.AddCommand(portfolioCmd)
}

var portfolioCmd = &cobra.Command{
	Use:     "portfolio SYMBOL WEIGHT [SYMBOL WEIGHT...] [period]",
	Aliases: []string{"port"},
	Short:   "Analyse a weighted portfolio of tickers",
	Example: "  dashctl portfolio SPY 60 AAPL 40 6mo",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := portfolioState(args)
		if err != nil {
			return err
		}
		if err := applyWindow(&st, portStart, portEnd, portRF); err != nil {
			return err
		}
		return runAnalysis(cmd, st, portChart, portOut, printPortfolio)
	},
}

func portfolioState(args []string) (dashboard.State, error) {
	symbols, weights, period, err := finance.ParseWeightedPortfolio(strings.Join(args, " "))
	if err != nil {
		return dashboard.State{}, err
	}
	return dashboard.State{Symbols: symbols, Weights: weights, Period: period}, nil
}

func printPortfolio(cmd *cobra.Command, rep dashboard.Report) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), rep)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s  %s to %s\n\n", rep.Range, rep.From, rep.To)
	if rep.Portfolio != nil {
		portfolioTable(w, rep.Symbols, rep.Portfolio)
		fmt.Fprintln(w)
	}
	statsTable(w, rep.Stats)
	return nil
}
