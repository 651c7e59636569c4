package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockDashboard/internal/catalog"
)

var (
	addMarket string
	addSector string
)

func init() {
	addCmd.Flags().StringVar(&addMarket, "market", "", "Market the company belongs to")
	addCmd.Flags().StringVar(&addSector, "sector", "", "Sector the company belongs to")

	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(addCmd)
}

var companiesCmd = &cobra.Command{
	Use:   "companies [MARKET [SECTOR]]",
	Short: "List markets, the sectors of a market, or the companies of a sector",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			markets := a.Catalog.Markets()
			if asJSON {
				return writeJSON(w, markets)
			}
			listTable(w, "Market", markets)
		case 1:
			sectors, err := a.Catalog.Sectors(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(w, sectors)
			}
			listTable(w, "Sector", sectors)
		default:
			companies := a.Catalog.Companies(args[0], args[1])
			if asJSON {
				return writeJSON(w, companies)
			}
			companiesTable(w, companies)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add NAME TICKER",
	Short: "Add a company to the catalog file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.Catalog.Add(cmd.Context(), catalog.Entry{Name: args[0], Ticker: args[1], Market: addMarket, Sector: addSector})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) to %s\n", e.Name, e.Ticker, a.Config.CatalogPath)
		return nil
	},
}
