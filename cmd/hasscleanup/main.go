package main

import (
	"os"

	"github.com/arthur-debert/hasscleanup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
