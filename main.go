// main is the entry point for the costgap CLI.
package main

import (
	"os"

	"github.com/mounishallu05/income-expense-gap-analysis/cmd"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogWarn("command failed", err)
		os.Exit(1)
	}
}
