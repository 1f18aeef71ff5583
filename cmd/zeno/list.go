package main

import (
	"fmt"

	apihandler "github.com/newthinker/zeno/internal/api/handler/api"
	"github.com/newthinker/zeno/internal/logger"
	"github.com/spf13/cobra"
)

var (
	listSizes  bool
	listPrefix string
)

var listCmd = &cobra.Command{
	Use:   "list [archive]",
	Short: "List the articles of the configured namespace",
	Long: `list enumerates one full pass over the configured namespace in
offset order. Redirects are skipped unless they sit at the end of the
namespace.

Without an archive argument, list prints the archives available in the
configured storage instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listSizes, "sizes", "s", false, "print content size next to each url")
	listCmd.Flags().StringVarP(&listPrefix, "prefix", "p", "", "only list archives under this storage prefix")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	store, acc, err := openStorage(cfg, log, nil)
	if err != nil {
		return err
	}
	defer acc.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		names, err := apihandler.ListArchives(cmd.Context(), store, listPrefix)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	if err := acc.Bind(cmd.Context(), args[0]); err != nil {
		return err
	}

	for item, err := range acc.Articles(cmd.Context()) {
		if err != nil {
			return err
		}
		if listSizes {
			fmt.Fprintf(out, "%s\t%d\n", item.URL, len(item.Content))
		} else {
			fmt.Fprintln(out, item.URL)
		}
	}
	return nil
}
