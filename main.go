// main is the entry point for the cigate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/cigate/cmd"
	"github.com/huangsam/cigate/internal/iocache"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps its outcome to a process exit code.
func run() int {
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		return 1
	}
	return 0
}
