package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/newthinker/zeno/internal/logger"
	"github.com/newthinker/zeno/internal/zeno"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <archive>",
	Short: "Show archive size and namespace bounds",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	store, err := newStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("creating storage: %w", err)
	}

	blob, err := store.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	f, err := zeno.NewReader(blob, blob.Size(), blob)
	if err != nil {
		blob.Close()
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Archive:  %s\n", args[0])
	fmt.Fprintf(out, "Size:     %d bytes\n", f.Size())
	fmt.Fprintf(out, "Entries:  %d\n\n", f.Count())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAMESPACE\tFIRST\tLAST\tENTRIES")
	for _, ns := range f.Namespaces() {
		first, err := f.NamespaceBeginOffset(ns)
		if err != nil {
			return err
		}
		last, err := f.NamespaceEndOffset(ns)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", ns, first, last, last-first+1)
	}
	return w.Flush()
}
