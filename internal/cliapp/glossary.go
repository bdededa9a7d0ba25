package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGlossaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage business glossary terms and their dataset links",
	}
	cmd.AddCommand(newGlossaryUpsertCmd(), newGlossaryLinkCmd())
	return cmd
}

func newGlossaryUpsertCmd() *cobra.Command {
	var definition, domain, owner string
	cmd := &cobra.Command{
		Use:   "upsert <term>",
		Short: "Create or update a glossary term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if definition == "" {
				return fmt.Errorf("--definition is required")
			}
			eng, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.GlossaryUpsert(cmd.Context(), args[0], definition, optionalFlag(domain), optionalFlag(owner)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "term %q upserted\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&definition, "definition", "", "term definition (required)")
	cmd.Flags().StringVar(&domain, "domain", "", "owning domain")
	cmd.Flags().StringVar(&owner, "owner", "", "owning team or person")
	return cmd
}

func newGlossaryLinkCmd() *cobra.Command {
	var column string
	var strict bool
	cmd := &cobra.Command{
		Use:   "link <term> <dataset>",
		Short: "Link a glossary term to a dataset, optionally scoped to a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.GlossaryLink(cmd.Context(), args[0], args[1], optionalFlag(column), strict); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "linked %q to %q\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "column name to scope the link to")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of silently skipping if either side does not resolve")
	return cmd
}
