package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medledger/medledger-cli/api"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Query node health and metrics",
	Example: `  medledger health
  medledger health --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		client := api.Client{BaseURL: serverURL}
		health, err := client.GetNodeHealth()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if output == "json" {
			fmt.Println(health.ToJSON())
		} else {
			fmt.Printf("Status: %s\nAssets: %d\nUptime: %ds\n",
				health.Status, health.Metrics.AssetCount, health.Metrics.UptimeSeconds)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringP("output", "o", "plain", "Output format: plain|json")
}
