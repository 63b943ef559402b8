package main

import "os"

func main() {
	rootCmd := buildRootCommand()
	rootCmd.AddCommand(buildPreviewCommand())
	rootCmd.AddCommand(buildApplyCommand())
	rootCmd.AddCommand(buildHistoryCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
