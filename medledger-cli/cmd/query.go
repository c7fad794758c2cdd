package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medledger/medledger-cli/api"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a scoped audit-log query (writes one audit entry per record shown)",
	Example: `  medledger query --user p1 --role patient
  medledger query --user a1 --role auditor`,
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")
		client := api.Client{BaseURL: serverURL}
		body, err := client.QueryAuditLog(user, role)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(body)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("user", "u", "", "Caller identity (patient or auditor id)")
	queryCmd.Flags().StringP("role", "r", "patient", "Caller role: patient|auditor")
	queryCmd.MarkFlagRequired("user")
}
