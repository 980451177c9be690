// fwf - Fixed-Width File Query Tool
//
// fwf parses fixed-width text files with a field layout and lets you filter,
// sort and project their records from the command line.
package main

import (
	"os"

	"github.com/ccollicutt/fwf/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
