package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medledger/medledger-cli/api"
)

var enumerateCmd = &cobra.Command{
	Use:     "enumerate",
	Short:   "List every asset as stored (encrypted tokens, no audit writes)",
	Example: `  medledger enumerate --user a1 --role auditor`,
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")
		client := api.Client{BaseURL: serverURL}
		body, err := client.EnumerateAssets(user, role)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(body)
	},
}

func init() {
	rootCmd.AddCommand(enumerateCmd)
	enumerateCmd.Flags().StringP("user", "u", "", "Caller identity")
	enumerateCmd.Flags().StringP("role", "r", "auditor", "Caller role: patient|auditor")
	enumerateCmd.MarkFlagRequired("user")
}
