package main

import (
	"os"

	"github.com/ethanolivertroy/dep-inventory/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
