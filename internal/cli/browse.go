package cli

import (
	"github.com/spf13/cobra"
	"lazyext/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the interactive TUI browser",
	Long:  `Browse installed languages, grammars and themes using an interactive terminal UI.`,
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	return tui.Run(ctx, sess.store, sess.languages, sess.themes)
}
