// Package cmd holds the blogd command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "blogd",
	Short: "blogd - blogging platform REST backend",
	Long: `blogd serves the blog REST API: accounts, posts with hosted images,
comments, likes and categories.

Configuration comes from .env, config/config.json and the environment.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
