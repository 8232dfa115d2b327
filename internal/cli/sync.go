package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"lazyext/internal/manifest"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rescan installed extensions and rewrite the manifest",
	Long: `Rescan every installed extension, bypassing the cached manifest,
and persist the result.

This is useful after editing an extension in place, which the cache
freshness check does not detect.

Examples:
  lazyext sync`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Scanning extensions...")

	before := sess.store.Manifest()
	if err := sess.store.Reload(ctx); err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}
	after := sess.store.Manifest()

	fmt.Fprintf(out, "Synced. %s, %d change(s).\n", countSummary(after), manifest.Diff(before, after).Count())
	return nil
}
