// Command reuse runs the community re-use registry CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/reuse/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
