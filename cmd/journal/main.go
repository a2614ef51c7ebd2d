package main

import (
	"os"

	"github.com/ndewijer/Trading-Journal-Backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
