package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/inovacc/wavelink/internal/model"
	"github.com/inovacc/wavelink/internal/roster"
	"github.com/spf13/cobra"
)

var taskAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a task to one or more devices",
	Long: `Create a task on every selected device. Each device gets its own copy
of the task, appended after its existing tasks.

When --audio is given the file is copied into the attachment directory.
With several devices every device gets its own copy of the recording, so
deleting the task on one device never affects the others.

The time defaults to now and accepts forms like "9:00 AM", "9:00am"
and "21:00".

Examples:
  wavelink task assign --device "Pi 1" --name "Wake up" --description "Morning alarm" --time "7:30 AM"
  wavelink task assign --device "Pi 1" --device "Pi 2" --name Lunch --description "Eat" --audio lunch.m4a
  wavelink task assign --all --name "Fire drill" --description "Leave the room"`,
	Args: cobra.NoArgs,
	RunE: runTaskAssign,
}

var (
	taskAssignDevices     []string
	taskAssignAll         bool
	taskAssignName        string
	taskAssignDescription string
	taskAssignTime        string
	taskAssignAudio       string
)

func init() {
	taskCmd.AddCommand(taskAssignCmd)

	taskAssignCmd.Flags().StringArrayVarP(&taskAssignDevices, "device", "d", nil, "Target device (repeatable)")
	taskAssignCmd.Flags().BoolVar(&taskAssignAll, "all", false, "Assign to every device")
	taskAssignCmd.Flags().StringVar(&taskAssignName, "name", "", "Task name (required)")
	taskAssignCmd.Flags().StringVar(&taskAssignDescription, "description", "", "Task description (required)")
	taskAssignCmd.Flags().StringVar(&taskAssignTime, "time", "", "Time of day (default: now)")
	taskAssignCmd.Flags().StringVar(&taskAssignAudio, "audio", "", "Audio file to attach")

	taskAssignCmd.MarkFlagsMutuallyExclusive("device", "all")
}

func runTaskAssign(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	targets, err := assignTargets(ws.Roster.Snapshot().Devices)
	if err != nil {
		return err
	}

	when := model.NormalizeTime(taskAssignTime)
	if when == "" {
		when = model.FormatTime(time.Now())
	}

	spec := roster.TaskSpec{
		Name:        taskAssignName,
		Description: taskAssignDescription,
		Time:        when,
	}

	if taskAssignAudio != "" {
		ref, err := ws.ImportAudio(cmd.Context(), taskAssignAudio)
		if err != nil {
			return fmt.Errorf("failed to import audio: %w", err)
		}

		spec.Audio = ref
	}

	res, err := ws.Roster.AssignTask(targets, spec)
	if err != nil {
		ws.Attachments.Release(spec.Audio)
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Assigned %q to %d device(s)\n", spec.Name, len(res.IDs))

	return nil
}

// assignTargets turns --device/--all into device ids, falling back to a
// picker on a terminal.
func assignTargets(devices []model.Device) ([]string, error) {
	if len(devices) == 0 {
		return nil, errors.New("no devices configured; add one with: wavelink device add --name <name>")
	}

	if taskAssignAll {
		ids := make([]string, len(devices))
		for i, d := range devices {
			ids[i] = d.ID
		}

		return ids, nil
	}

	if len(taskAssignDevices) == 0 {
		if !isInteractive() {
			return nil, errors.New("select devices with --device or --all")
		}

		id, err := pickDevice(devices)
		if err != nil {
			return nil, err
		}

		return []string{id}, nil
	}

	ids := make([]string, 0, len(taskAssignDevices))

	for _, ref := range taskAssignDevices {
		d, err := matchDevice(devices, ref)
		if err != nil {
			return nil, err
		}

		ids = append(ids, d.ID)
	}

	return ids, nil
}
