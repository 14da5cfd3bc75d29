package main

import (
	"fmt"
	"os"

	"github.com/prasdika/tabtrans/internal/cli"
)

func main() {
	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
