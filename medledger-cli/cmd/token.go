package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medledger/core/auth"
)

var tokenCmd = &cobra.Command{
	Use:     "token",
	Short:   "Mint a dev identity token for the node's bearer auth",
	Example: `  medledger token --user p1 --role patient --secret $JWT_SECRET`,
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")
		secret, _ := cmd.Flags().GetString("secret")
		if secret == "" {
			secret = os.Getenv("JWT_SECRET")
		}
		if secret == "" {
			fmt.Println("Error: no secret given and JWT_SECRET not set")
			os.Exit(1)
		}
		token, err := auth.NewToken(auth.Identity{UserID: user, Role: role}, secret)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringP("user", "u", "", "Identity subject")
	tokenCmd.Flags().StringP("role", "r", "patient", "Identity role: patient|auditor")
	tokenCmd.Flags().String("secret", "", "HMAC secret (defaults to JWT_SECRET env)")
	tokenCmd.MarkFlagRequired("user")
}
