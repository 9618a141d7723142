// Package cmd - price table queries
package cmd

import (
	"github.com/spf13/cobra"

	"tollgrid/core/output"
)

var checkShowErrors bool

var getPricesCmd = &cobra.Command{
	Use:   "get-prices <entry>",
	Short: "List the known prices from every entry station matching a name",
	Long: `List the known prices of every route whose normalized entry station
contains the normalized query.

Examples:
  tollgrid get-prices "Saint-Arnoult"
  tollgrid get-prices --format json arnoult`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		return render(cmd, output.PricesResult{Query: args[0], Prices: eng.GetPrices(args[0])})
	},
}

var getStationCmd = &cobra.Command{
	Use:   "get-station <name>",
	Short: "List the canonical station names matching a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		return render(cmd, output.StationsResult{Query: args[0], Stations: eng.GetStations(args[0])})
	},
}

var checkPricesCmd = &cobra.Command{
	Use:   "check-prices",
	Short: "Load every price list and report the load audit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		status, audit := eng.CheckPrices()
		return render(cmd, output.CheckResult{Status: status, Audit: audit, ShowErrors: checkShowErrors})
	},
}

func init() {
	checkPricesCmd.Flags().BoolVar(&checkShowErrors, "errors", false, "list every load error")

	rootCmd.AddCommand(getPricesCmd)
	rootCmd.AddCommand(getStationCmd)
	rootCmd.AddCommand(checkPricesCmd)
}
