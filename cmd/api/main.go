package main

import (
	"os"

	"github.com/jhoicas/hospital-contable/cmd/api/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
