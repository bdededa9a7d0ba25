package cliapp

import (
	"encoding/json"
	"io"
	"text/tabwriter"
)

// renderJSON pretty-prints v as JSON to w.
func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabwriter returns a tabwriter configured the same way across every
// table-rendering command.
func newTabwriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
