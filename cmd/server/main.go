package main

import (
	"os"

	"github.com/simaogato/portfolio-backend/cmd/server/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
