// Command listkit renders sortable, paginated views over record files.
package main

import (
	"fmt"
	"os"

	"github.com/listkit/listkit/internal/cli"
	"github.com/listkit/listkit/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}
