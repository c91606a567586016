package main

import (
	"os"

	"github.com/calorietracker/backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
