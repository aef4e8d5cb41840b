package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"filevault/internal/blob"
)

// putCmd stores one blob from a file or stdin.
var putCmd = &cobra.Command{
	Use:   "put <name> [file]",
	Short: "Store a blob under the given logical name",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPut,
}

func runPut(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := blob.Open(cfg, slog.Default())
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if err := store.Write(cmd.Context(), args[0], in); err != nil {
		return err
	}
	url, err := store.URLFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
