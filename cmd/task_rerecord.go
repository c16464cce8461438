package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/wavelink/internal/attachment"
	"github.com/spf13/cobra"
)

var taskRerecordCmd = &cobra.Command{
	Use:   "rerecord [task] <audio-file>",
	Short: "Replace a task's audio with a new recording",
	Long: `Delete a task's current recording and store a new one in its place.

The old recording is deleted before the new one is stored; if storing
fails the task is left without audio.

Examples:
  wavelink task rerecord 9c1e wake-up-v2.m4a
  wavelink task rerecord wake-up-v2.m4a --yes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTaskRerecord,
}

var taskRerecordYes bool

func init() {
	taskCmd.AddCommand(taskRerecordCmd)

	taskRerecordCmd.Flags().BoolVarP(&taskRerecordYes, "yes", "y", false, "Skip confirmation")
}

func runTaskRerecord(cmd *cobra.Command, args []string) error {
	ref, source := "", args[0]
	if len(args) == 2 {
		ref, source = args[0], args[1]
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	task, device, err := resolveTask(ws, ref)
	if err != nil {
		return err
	}

	var existing *attachment.Ref

	if task.HasAudio() {
		summary := fmt.Sprintf("replace the recording of task %d %q on %s", task.Number, task.Name, device.Name)
		if !confirmAction(summary, taskRerecordYes) {
			_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
			return nil
		}

		existing = &attachment.Ref{Name: task.AudioFilePath}
	}

	edit := taskEditFrom(task)

	newRef, err := ws.ReplaceAudio(cmd.Context(), existing, source)
	if err != nil {
		if existing != nil {
			// The old file is gone; drop the reference to it.
			edit.Audio = &attachment.Ref{}
			if _, editErr := ws.Roster.EditTask(task.ID, edit); editErr != nil {
				logger.Warn("failed to clear audio reference", "task", task.ID, "error", editErr)
			}
		}

		return fmt.Errorf("failed to store recording: %w", err)
	}

	edit.Audio = &newRef

	if _, err := ws.Roster.EditTask(task.ID, edit); err != nil {
		ws.Attachments.Release(newRef)
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Replaced recording of task %d %q\n", task.Number, task.Name)

	return nil
}
