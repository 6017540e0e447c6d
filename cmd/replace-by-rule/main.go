// Command replace-by-rule applies ordered find/replace rules to text.
package main

import (
	"os"

	"github.com/roach88/replace-by-rule/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
