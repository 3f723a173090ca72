package main

import (
	"os"

	"github.com/bsharp-lang/bsharp/cmd/bsharp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
