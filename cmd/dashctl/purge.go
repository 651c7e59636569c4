package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var purgeAge time.Duration

func init() {
	purgeCmd.Flags().DurationVar(&purgeAge, "older-than", 24*time.Hour, "Delete cached price tables fetched longer ago than this")
	rootCmd.AddCommand(purgeCmd)
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete old entries from the price cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Prices.Purge(cmd.Context(), time.Now().Add(-purgeAge))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached tables\n", n)
		return nil
	},
}
