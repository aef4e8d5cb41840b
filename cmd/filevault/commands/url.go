package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"filevault/internal/blob"
)

// urlCmd prints the public URL of a blob.
var urlCmd = &cobra.Command{
	Use:   "url <name>",
	Short: "Print the public URL of a blob",
	Args:  cobra.ExactArgs(1),
	RunE:  runURL,
}

func runURL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := blob.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	url, err := store.URLFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if url == "" {
		return fmt.Errorf("no blob at %s", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
