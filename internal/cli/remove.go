package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	removeForce bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <extension>",
	Aliases: []string{"rm", "uninstall"},
	Short:   "Remove an installed extension",
	Long: `Delete an extension directory from <root>/installed/ and update the manifest.

Examples:
  lazyext remove zed-monokai
  lazyext rm zed-monokai --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Force removal without confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	id := args[0]
	out := cmd.OutOrStdout()

	// Confirm unless forced
	if !removeForce {
		fmt.Fprintf(out, "Remove extension %s? [y/N]: ", id)
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}

	fmt.Fprintf(out, "Removing %s...\n", id)
	if err := sess.store.Uninstall(ctx, id); err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}

	fmt.Fprintf(out, "Successfully removed %s. %s remain.\n", id, countSummary(sess.store.Manifest()))
	return nil
}
