package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/wavelink/internal/cli"
	"github.com/inovacc/wavelink/internal/model"
	"github.com/spf13/cobra"
)

var taskRemoveCmd = &cobra.Command{
	Use:   "remove <device> [task...]",
	Short: "Remove tasks from a device",
	Long: `Remove one or more tasks from a device. The remaining tasks are
renumbered so they stay 1..n, and the removed tasks' recordings are
deleted.

With only a device argument on a terminal, a picker selects the task.

Examples:
  wavelink task remove "Pi 1" 9c1e
  wavelink task rm "Pi 1" 9c1e 47ab --yes`,
	Aliases: []string{"rm", "delete"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTaskRemove,
}

var taskRemoveYes bool

func init() {
	taskCmd.AddCommand(taskRemoveCmd)

	taskRemoveCmd.Flags().BoolVarP(&taskRemoveYes, "yes", "y", false, "Skip confirmation")
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	device, err := resolveDevice(ws, args[:1])
	if err != nil {
		return err
	}

	refs := args[1:]
	if len(refs) == 0 {
		if !isInteractive() || len(device.Tasks) == 0 {
			return fmt.Errorf("no task given for device %s", device.Name)
		}

		id, err := cli.Pick(cli.NewTaskPicker(device))
		if err != nil {
			return err
		}

		refs = []string{id}
	}

	ids := make([]string, 0, len(refs))

	for _, ref := range refs {
		task, _, err := matchTask([]model.Device{device}, ref)
		if err != nil {
			return err
		}

		ids = append(ids, task.ID)
	}

	pending, err := ws.Roster.RequestDeleteTasks(device.ID, ids)
	if err != nil {
		return err
	}

	if !confirmAction(pending.Summary, taskRemoveYes) {
		_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
		return nil
	}

	if _, err := ws.Roster.Confirm(pending); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Removed %d task(s) from %s\n", len(pending.TaskIDs), device.Name)

	return nil
}
