package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "zeno",
	Short: "ZENO - read-only zeno archive reader",
	Long: `zeno opens zeno archives from local disk or S3-compatible storage,
enumerates the articles of a namespace and resolves article paths,
following redirects. It can serve archives over HTTP or inspect them
from the command line.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
