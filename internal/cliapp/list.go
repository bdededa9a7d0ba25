package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalogcore/internal/catalog"
)

func newListCmd() *cobra.Command {
	var tenant, domain string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets, optionally filtered by tenant and domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutputFormat(); err != nil {
				return err
			}
			eng, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			filter := catalog.ListFilter{
				Tenant: optionalFlag(tenant),
				Domain: optionalFlag(domain),
			}
			out, err := eng.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), out)
			}
			tw := newTabwriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tFORMAT\tTENANT\tDOMAIN\tOWNER")
			for _, d := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Format, deref(d.Tenant), deref(d.Domain), deref(d.Owner))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "filter by tenant")
	cmd.Flags().StringVar(&domain, "domain", "", "filter by domain")
	return cmd
}

func optionalFlag(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
