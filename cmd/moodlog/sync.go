package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ntarasova/moodlog/internal/connectivity"
)

var watchFlag bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the local journal with the remote store",
	Long: `Runs a push pass (dirty local entries out) followed by a pull pass
(remote changes in). With --watch the command keeps running and re-syncs
whenever connectivity comes back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if _, ok := a.sess.UserID(); !ok {
			return fmt.Errorf("not signed in; run moodlog login first")
		}

		if err := a.syncer.PushAll(ctx); err != nil {
			return err
		}
		if err := a.syncer.PullAll(ctx); err != nil {
			return err
		}

		if !watchFlag {
			fmt.Println("sync complete")
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("watching for connectivity changes, ctrl-c to stop")
		w := connectivity.NewWatcher(a.oracle, a.cfg.OnlineCheckInterval)
		w.Run(ctx, a.trigger.Request)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "keep running and sync on reconnect")
	rootCmd.AddCommand(syncCmd)
}
