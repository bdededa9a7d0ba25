// Command catalog-cli is the operator CLI for the catalog core.
package main

import (
	"context"
	"fmt"
	"os"

	"catalogcore/internal/catalogerr"
	"catalogcore/internal/cliapp"
)

func main() {
	root := cliapp.NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if catalogerr.Is(err, catalogerr.KindNotFound) || catalogerr.Is(err, catalogerr.KindInvalidArgument) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
