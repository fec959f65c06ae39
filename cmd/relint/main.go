// Package main is the entry point for the relint CLI.
//
// All logic lives in the commands package.
package main

import (
	"os"

	"github.com/JNZader/relint/cmd/relint/commands"
)

func main() {
	os.Exit(commands.Execute())
}
