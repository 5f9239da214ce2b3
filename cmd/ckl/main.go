package main

import (
	"os"

	"ckl-cli/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
