package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medledger/medledger-cli/api"
)

var immutabilityCmd = &cobra.Command{
	Use:     "immutability <record-id>",
	Short:   "Delete a record and prove its history survived",
	Example: `  medledger immutability 8e3dd2ea9ff3... --user a1 --role auditor`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")
		client := api.Client{BaseURL: serverURL}
		body, err := client.VerifyImmutability(user, role, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(body)
	},
}

func init() {
	rootCmd.AddCommand(immutabilityCmd)
	immutabilityCmd.Flags().StringP("user", "u", "", "Caller identity")
	immutabilityCmd.Flags().StringP("role", "r", "auditor", "Caller role: patient|auditor")
	immutabilityCmd.MarkFlagRequired("user")
}
