package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"lazyext/internal/logging"
	"lazyext/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the manifest whenever extensions change",
	Long: `Watch <root>/installed/ and reload the manifest after extensions are
added, removed or modified. Runs until interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w, err := watcher.New(sess.store, sess.store.InstalledDir(), watcher.Options{
		Debounce: sess.cfg.WatchDebounce,
		Logger:   logging.Component(sess.log, "watcher"),
		OnReload: func(err error) {
			if err != nil {
				fmt.Fprintf(out, "Reload failed: %v\n", err)
				return
			}
			fmt.Fprintf(out, "Reloaded: %s\n", countSummary(sess.store.Manifest()))
		},
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	fmt.Fprintf(out, "Watching %s (%s). Press Ctrl+C to stop.\n",
		sess.store.InstalledDir(), countSummary(sess.store.Manifest()))
	<-ctx.Done()
	return nil
}
