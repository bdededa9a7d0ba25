package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over dataset names, paths, fields, and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutputFormat(); err != nil {
				return err
			}
			eng, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			hits, err := eng.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), hits)
			}
			tw := newTabwriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tPATH\tDOMAIN\tOWNER\tRANK")
			for _, h := range hits {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\n", h.Name, h.Path, deref(h.Domain), deref(h.Owner), h.Rank)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of results")
	return cmd
}
