package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/wavelink/internal/encoding"
	"github.com/inovacc/wavelink/internal/model"
	"github.com/spf13/cobra"
)

var taskListCmd = &cobra.Command{
	Use:     "list [device]",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List the tasks of one device, or of every device when no device is
given.

Examples:
  wavelink task list
  wavelink task list "Pi 1"
  wavelink task list --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTaskList,
}

var taskListJSON bool

func init() {
	taskCmd.AddCommand(taskListCmd)

	taskListCmd.Flags().BoolVar(&taskListJSON, "json", false, "Output in JSON format")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	devices := ws.Roster.Snapshot().Devices

	if len(args) == 1 {
		d, err := matchDevice(devices, args[0])
		if err != nil {
			return err
		}

		devices = []model.Device{d}
	}

	if taskListJSON {
		return printTasksJSON(devices)
	}

	if len(devices) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No devices configured.")
		return nil
	}

	printTasksTable(devices)

	return nil
}

func printTasksTable(devices []model.Device) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	deviceStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	audioStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	for _, d := range devices {
		_, _ = fmt.Fprintln(os.Stdout)
		_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", deviceStyle.Render(d.Name), idStyle.Render("("+shortID(d.ID)+")"))

		if len(d.Tasks) == 0 {
			_, _ = fmt.Fprintln(os.Stdout, "  No tasks.")
			continue
		}

		maxName := 10
		for _, t := range d.Tasks {
			maxName = max(maxName, min(len(t.Name), 30))
		}

		_, _ = fmt.Fprintf(os.Stdout, "  %s  %s  %s  %s  %s  %s\n",
			headerStyle.Render(padRight("#", 3)),
			headerStyle.Render(padRight("ID", 8)),
			headerStyle.Render(padRight("TIME", 8)),
			headerStyle.Render(padRight("NAME", maxName)),
			headerStyle.Render(padRight("AUDIO", 5)),
			headerStyle.Render("DESCRIPTION"),
		)
		_, _ = fmt.Fprintln(os.Stdout, "  "+strings.Repeat("-", maxName+60))

		for _, t := range d.Tasks {
			audio := padRight("-", 5)
			if t.HasAudio() {
				audio = audioStyle.Render(padRight("yes", 5))
			}

			_, _ = fmt.Fprintf(os.Stdout, "  %s  %s  %s  %s  %s  %s\n",
				padRight(fmt.Sprintf("%d", t.Number), 3),
				idStyle.Render(padRight(shortID(t.ID), 8)),
				padRight(t.Time, 8),
				padRight(truncateString(t.Name, maxName), maxName),
				audio,
				truncateString(t.Description, 40),
			)
		}
	}

	_, _ = fmt.Fprintln(os.Stdout)
}

type taskRow struct {
	Device string `json:"device"`
	model.Task
}

func printTasksJSON(devices []model.Device) error {
	rows := []taskRow{}

	for _, d := range devices {
		for _, t := range d.Tasks {
			rows = append(rows, taskRow{Device: d.ID, Task: t})
		}
	}

	data, err := encoding.ToJSONIndent(rows)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	_, _ = fmt.Fprintln(os.Stdout, string(data))

	return nil
}
