package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "yatube",
	Short: "Yatube - a small blogging platform",
	Long: `Yatube serves a blog where users publish posts, sort them into groups,
comment on each other's posts and follow their favourite authors.

Configuration is read from YATUBE_* environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides YATUBE_LOG_LEVEL)")
}
