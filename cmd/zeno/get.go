package main

import (
	"fmt"

	"github.com/newthinker/zeno/internal/logger"
	"github.com/spf13/cobra"
)

var showMime bool

var getCmd = &cobra.Command{
	Use:   "get <archive> <path>",
	Short: "Write an article's content to stdout",
	Long: `get resolves a path of the form /<namespace>/<url>, following
redirects, and writes the raw content to stdout.`,
	Example: "  zeno get wiki.zeno /A/Home > home.html",
	Args:    cobra.ExactArgs(2),
	RunE:    runGet,
}

func init() {
	getCmd.Flags().BoolVarP(&showMime, "mime", "m", false, "print the MIME type instead of the content")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	_, acc, err := openStorage(cfg, log, nil)
	if err != nil {
		return err
	}
	defer acc.Close()

	if err := acc.Bind(cmd.Context(), args[0]); err != nil {
		return err
	}

	mimeType, data, err := acc.Content(args[1])
	if err != nil {
		return err
	}

	if showMime {
		fmt.Fprintln(cmd.OutOrStdout(), mimeType)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
