package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/olekukonko/tablewriter"

	"stockDashboard/internal/dashboard"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cell(f dashboard.Float, places int) string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return fmt.Sprintf("%.*f", places, v)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	return table
}

func statsTable(w io.Writer, rows []dashboard.SymbolRow) {
	table := newTable(w, "Symbol", "Start", "End", "Return %", "Annual %", "Volatility", "Sharpe", "Max DD %", "Days")
	for _, r := range rows {
		table.Append([]string{
			r.Symbol,
			cell(r.StartPrice, 2),
			cell(r.EndPrice, 2),
			cell(r.TotalReturnPct, 2),
			cell(r.AnnualReturnPct, 2),
			cell(r.Volatility, 4),
			cell(r.SharpeRatio, 4),
			cell(r.MaxDrawdownPct, 2),
			fmt.Sprintf("%d", r.Observations),
		})
	}
	table.Render()
}

func portfolioTable(w io.Writer, symbols []string, p *dashboard.PortfolioSummary) {
	table := newTable(w, "Symbol", "Weight %")
	for _, sym := range symbols {
		table.Append([]string{sym, cell(p.Weights[sym]*100, 2)})
	}
	table.SetFooter([]string{"Sharpe " + cell(p.SharpeRatio, 4), "Return " + cell(p.TotalReturnPct, 2) + "%"})
	table.Render()

	fmt.Fprintf(w, "\nmean %s  stdev %s  annual %s%%  max drawdown %s%%  over %d days\n",
		cell(p.Mean, 4), cell(p.StdDev, 4), cell(p.AnnualReturnPct, 2), cell(p.MaxDrawdownPct, 2), p.Observations)
}

func correlationTable(w io.Writer, symbols []string, m [][]dashboard.Float) {
	table := newTable(w, append([]string{""}, symbols...)...)
	for i, sym := range symbols {
		row := []string{sym}
		for _, v := range m[i] {
			row = append(row, cell(v, 2))
		}
		table.Append(row)
	}
	table.Render()
}

func listTable(w io.Writer, header string, items []string) {
	table := newTable(w, header)
	for _, it := range items {
		table.Append([]string{it})
	}
	table.Render()
}

func companiesTable(w io.Writer, companies map[string]string) {
	names := make([]string, 0, len(companies))
	for n := range companies {
		names = append(names, n)
	}
	sort.Strings(names)
	table := newTable(w, "Company", "Ticker")
	for _, n := range names {
		table.Append([]string{n, companies[n]})
	}
	table.Render()
}
