package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/wavelink/internal/attachment"
	"github.com/inovacc/wavelink/internal/model"
	"github.com/inovacc/wavelink/internal/roster"
	"github.com/spf13/cobra"
)

var taskEditCmd = &cobra.Command{
	Use:   "edit [task]",
	Short: "Change a task's fields or audio",
	Long: `Change an existing task. Only the flags you pass are changed. The task
keeps its id and its position on the device.

--audio attaches a new recording and deletes the one it replaces;
--clear-audio removes the recording.

Examples:
  wavelink task edit 9c1e --time "10:15 AM"
  wavelink task edit 9c1e --name "Snack" --audio snack.m4a
  wavelink task edit --clear-audio`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTaskEdit,
}

var (
	taskEditName        string
	taskEditDescription string
	taskEditTime        string
	taskEditAudio       string
	taskEditClearAudio  bool
)

func init() {
	taskCmd.AddCommand(taskEditCmd)

	taskEditCmd.Flags().StringVar(&taskEditName, "name", "", "New task name")
	taskEditCmd.Flags().StringVar(&taskEditDescription, "description", "", "New task description")
	taskEditCmd.Flags().StringVar(&taskEditTime, "time", "", "New time of day")
	taskEditCmd.Flags().StringVar(&taskEditAudio, "audio", "", "Replace the audio with this file")
	taskEditCmd.Flags().BoolVar(&taskEditClearAudio, "clear-audio", false, "Remove the audio")

	taskEditCmd.MarkFlagsMutuallyExclusive("audio", "clear-audio")
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	task, _, err := resolveTask(ws, firstArg(args))
	if err != nil {
		return err
	}

	edit := taskEditFrom(task)
	changed := cmd.Flags().Changed

	if changed("name") {
		edit.Name = taskEditName
	}

	if changed("description") {
		edit.Description = taskEditDescription
	}

	if changed("time") {
		edit.Time = model.NormalizeTime(taskEditTime)
	}

	if taskEditClearAudio {
		edit.Audio = &attachment.Ref{}
	}

	var imported attachment.Ref

	if taskEditAudio != "" {
		imported, err = ws.ImportAudio(cmd.Context(), taskEditAudio)
		if err != nil {
			return fmt.Errorf("failed to import audio: %w", err)
		}

		edit.Audio = &imported
	}

	if _, err := ws.Roster.EditTask(task.ID, edit); err != nil {
		ws.Attachments.Release(imported)
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Updated task %d %q\n", task.Number, edit.Name)

	return nil
}

// taskEditFrom returns an edit that leaves t unchanged.
func taskEditFrom(t model.Task) roster.TaskEdit {
	return roster.TaskEdit{
		Name:        t.Name,
		Description: t.Description,
		Time:        t.Time,
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}
