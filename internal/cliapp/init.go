package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new catalog artifact at CATALOG_PATH",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.Init(cmd.Context(), force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "catalog initialized")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "drop and recreate the catalog if one already exists")
	return cmd
}
