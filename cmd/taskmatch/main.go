// Package main provides the entry point for the task-assignment recommendation engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskmatch",
	Short: "Task-assignment recommendation engine",
	Long:  "Taskmatch ranks employees for task assignment by skill match, availability, workload and performance history, and analyzes requirement documents into task drafts via REST API or CLI.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
