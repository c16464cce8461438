package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/inovacc/wavelink/internal/attachment"
	"github.com/spf13/cobra"
)

var taskPlayCmd = &cobra.Command{
	Use:   "play [task]",
	Short: "Play a task's audio",
	Long: `Play the recording attached to a task with the configured player
command and wait until it finishes. Press Ctrl+C to stop.

Examples:
  wavelink task play 9c1e
  wavelink task play`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTaskPlay,
}

func init() {
	taskCmd.AddCommand(taskPlayCmd)
}

func runTaskPlay(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	task, _, err := resolveTask(ws, firstArg(args))
	if err != nil {
		return err
	}

	if !task.HasAudio() {
		return fmt.Errorf("task %q has no audio", task.Name)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ref := attachment.Ref{Name: task.AudioFilePath}
	if err := ws.Attachments.Play(ctx, ref); err != nil {
		if errors.Is(err, attachment.ErrAttachmentMissing) {
			return fmt.Errorf("recording for task %q is missing", task.Name)
		}

		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Playing %q (Ctrl+C to stop)\n", task.Name)

	err = ws.Attachments.WaitPlayback(ctx)
	if errors.Is(err, context.Canceled) {
		ws.Attachments.StopPlayback()
		return nil
	}

	return err
}
