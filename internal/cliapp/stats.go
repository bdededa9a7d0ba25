package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate catalog counts and the current version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutputFormat(); err != nil {
				return err
			}
			eng, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			s, err := eng.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), s)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "datasets:        %d\n", s.Datasets)
			fmt.Fprintf(w, "fields:          %d\n", s.Fields)
			fmt.Fprintf(w, "lineage_edges:   %d\n", s.LineageEdges)
			fmt.Fprintf(w, "tags:            %d\n", s.Tags)
			fmt.Fprintf(w, "glossary_terms:  %d\n", s.GlossaryTerms)
			fmt.Fprintf(w, "version:         %d\n", s.Version)
			fmt.Fprintf(w, "last_modified:   %s\n", s.LastModifiedAt.Format("2006-01-02T15:04:05Z07:00"))
			return nil
		},
	}
	return cmd
}
