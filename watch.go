package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tracknote/tracknote/internal/config"
	"github.com/tracknote/tracknote/internal/confirm"
	"github.com/tracknote/tracknote/internal/host"
	"github.com/tracknote/tracknote/internal/repository"
	"github.com/tracknote/tracknote/internal/service"
	"github.com/tracknote/tracknote/internal/tracker"
	"github.com/tracknote/tracknote/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <note-file>",
	Short: "Watch a markdown note and resolve task mentions as it is edited",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	manager, err := config.Load()
	if err != nil {
		return err
	}
	settings := manager.Snapshot()

	db, err := repository.InitDB(historyDB)
	if err != nil {
		return err
	}
	defer db.Close()
	history := repository.NewHistoryRepository(db)

	buf, err := host.OpenFile(args[0])
	if err != nil {
		return err
	}

	notifier := ui.NewConsole(os.Stderr)
	var prompt confirm.Prompt = confirm.FormPrompt{}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		prompt = confirm.AutoCancel{}
		notifier.Info("no terminal attached; new-task confirmations are disabled")
	}

	client := tracker.NewHTTPClient(settings.APIEndpoint, settings.Token, settings.OrgID)
	svc := service.NewResolutionService(buf, prompt, client, manager, history, notifier, logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(args[0]); err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}

	logger.Info("watching note", zap.String("path", args[0]))
	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors that save via rename drop the watch; re-add it.
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if err := watcher.Add(args[0]); err != nil {
					logger.Warn("re-add watch failed", zap.Error(err))
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			ev, changed, err := buf.Reload()
			if err != nil {
				logger.Warn("reload failed", zap.Error(err))
				continue
			}
			if !changed {
				continue
			}
			if res, err := svc.HandleEdit(ctx, ev); err != nil {
				logger.Error("resolution pass failed", zap.Stringer("outcome", res.Outcome), zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
