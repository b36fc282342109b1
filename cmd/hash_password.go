package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-cms/apiserver/internal/auth"
)

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <plain>",
	Short: "Prints a bcrypt digest of the given password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		digest, err := auth.NewCredentials("", 0, hashCost).HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), digest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)

	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 10, "bcrypt cost")
}
