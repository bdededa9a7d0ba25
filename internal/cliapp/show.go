package cliapp

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"catalogcore/internal/catalog"
)

func newShowCmd() *cobra.Command {
	var lineage bool
	var depth int
	var direction string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a dataset's metadata, schema, and tags",
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

			name := args[0]
			record, err := eng.Get(cmd.Context(), name)
			if err != nil {
				return err
			}

			if lineage {
				dir := catalog.Upstream
				if direction == "downstream" {
					dir = catalog.Downstream
				}
				result, err := eng.Traverse(cmd.Context(), name, dir, depth)
				if err != nil {
					return err
				}
				if outputFormat == "json" {
					return renderJSON(cmd.OutOrStdout(), struct {
						Dataset catalog.DatasetRecord   `json:"dataset"`
						Lineage catalog.TraversalResult `json:"lineage"`
					}{record, result})
				}
				printRecord(cmd, record)
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s (depth %d):\n", strings.ToUpper(direction), depth)
				for _, n := range result.Nodes {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n)
				}
				return nil
			}

			if outputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), record)
			}
			printRecord(cmd, record)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lineage, "lineage", false, "include lineage traversal")
	cmd.Flags().IntVar(&depth, "depth", 3, "lineage traversal depth (1-10)")
	cmd.Flags().StringVar(&direction, "direction", "upstream", "lineage direction: upstream or downstream")
	return cmd
}

func printRecord(cmd *cobra.Command, r catalog.DatasetRecord) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "name:        %s\n", r.Dataset.Name)
	fmt.Fprintf(w, "path:        %s\n", r.Dataset.Path)
	fmt.Fprintf(w, "format:      %s\n", r.Dataset.Format)
	fmt.Fprintf(w, "tenant:      %s\n", deref(r.Dataset.Tenant))
	fmt.Fprintf(w, "domain:      %s\n", deref(r.Dataset.Domain))
	fmt.Fprintf(w, "owner:       %s\n", deref(r.Dataset.Owner))
	fmt.Fprintf(w, "tags:        %s\n", strings.Join(r.Tags, ", "))
	fmt.Fprintf(w, "upstream:    %s\n", strings.Join(r.Upstream, ", "))
	fmt.Fprintf(w, "downstream:  %s\n", strings.Join(r.Downstream, ", "))
	fmt.Fprintln(w, "fields:")
	tw := newTabwriter(w)
	fmt.Fprintln(tw, "  NAME\tTYPE\tNULLABLE")
	for _, f := range r.Fields {
		fmt.Fprintf(tw, "  %s\t%s\t%t\n", f.Name, f.DataType, f.Nullable)
	}
	tw.Flush()
}
