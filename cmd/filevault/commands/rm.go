package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"filevault/internal/blob"
)

var rmPrefix bool

// rmCmd deletes a single blob, or a whole namespace with --prefix.
var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a blob, or everything under a prefix",
	Long: `Delete the blob at the given logical name. With --prefix the argument is
treated as a namespace and everything under it is removed recursively.

Deletion is best effort: removing a name that holds no blob succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVar(&rmPrefix, "prefix", false, "delete everything under the given prefix")
}

func runRm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := blob.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	if rmPrefix {
		return store.DeleteByPrefix(cmd.Context(), args[0])
	}
	return store.Delete(cmd.Context(), args[0])
}
