package itestctl

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the itestctl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := rootCmd.Version
			if v == "" {
				v = "dev"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "itestctl version %s\n", v)
			return nil
		},
	}
}
