// Command futurepaths builds the career label space, trains and evaluates
// transformations and serves suggestions from a terminal UI or HTTP.
//
// Usage:
//
//	futurepaths [--config config.yaml] [--override method.yaml] <command>
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dreytengan/futurepaths/cmd/futurepaths/commands"
)

func main() {
	_ = godotenv.Load()
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
