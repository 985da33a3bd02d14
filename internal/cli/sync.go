package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reporunner/reporunner-go/internal/workflowfile"
)

const syncDebounce = 250 * time.Millisecond

func workflowSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync <workflow-id> -f <file>",
		Short: "Push a workflow definition file to the server",
		Long: `Push a workflow definition file to the server.

With --watch the file is re-pushed every time it changes, which keeps the
remote workflow in sync while editing locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			watch, _ := cmd.Flags().GetBool("watch")

			if err := pushDefinition(cmd.Context(), args[0], file); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchDefinition(cmd.Context(), args[0], file)
		},
	}

	cmd.Flags().StringP("file", "f", "", "workflow definition file")
	cmd.Flags().Bool("watch", false, "re-push the file whenever it changes")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func pushDefinition(ctx context.Context, workflowID, file string) error {
	def, err := workflowfile.Load(file)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	wf, err := client.UpdateWorkflow(ctx, workflowID, def.UpdateRequest())
	if err != nil {
		return err
	}
	log.Info().
		Str("workflow_id", wf.ID).
		Str("file", file).
		Msg("Workflow synced")
	return nil
}

// watchDefinition re-pushes the file on every change until ctx is done.
// Editors often produce bursts of writes and rename-based saves, so events
// are debounced and the watch is placed on the parent directory.
func watchDefinition(ctx context.Context, workflowID, file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	log.Info().Str("file", abs).Msg("Watching for changes")

	var debounce *time.Timer
	pushes := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(syncDebounce, func() {
				select {
				case pushes <- struct{}{}:
				default:
				}
			})
		case <-pushes:
			if err := pushDefinition(ctx, workflowID, file); err != nil {
				log.Error().Err(err).Msg("Sync failed, still watching")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}
