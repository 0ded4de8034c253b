package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/prism/internal/adapters/filewatcher"
	"github.com/0xcro3dile/prism/internal/domain/ports"
)

func newWatchCmd(a *app) *cobra.Command {
	f := &splitFlags{}
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-split a document every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return errors.New("watch needs a file path, not stdin")
			}
			if err := f.apply(cmd, a.cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, args[0], f)
		},
	}
	f.bind(cmd)
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, path string, f *splitFlags) error {
	out := cmd.OutOrStdout()
	if err := a.inspect(ctx, out, nil, path, f); err != nil {
		return err
	}

	watcher, err := filewatcher.NewFSNotifyWatcher(nil, a.cfg.WatchDebounce, a.log)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, path)
	if err != nil {
		return err
	}
	a.log.Info("watching for changes", "path", path)

	for ev := range events {
		if ev.Operation == ports.FileDeleted {
			a.log.Warn("document removed, waiting for it to come back", "path", ev.Path)
			continue
		}
		if err := a.inspect(ctx, out, nil, path, f); err != nil {
			// Keep watching; the next save may fix it.
			a.log.Error("re-split failed", "path", path, "error", err)
		}
	}
	return nil
}
