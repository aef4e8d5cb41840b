package commands

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"filevault/internal/blob"
)

// lsCmd lists stored blobs.
var lsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List blobs, optionally filtered by prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := blob.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	infos, err := store.List(cmd.Context(), prefix)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(w, "%d\t%s\t%s\n", info.Size, info.LastModified.Format(time.RFC3339), info.Key)
	}
	return w.Flush()
}
