package main

import (
	"os"

	"github.com/ByLCY/telop/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
