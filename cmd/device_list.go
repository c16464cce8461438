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

var deviceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List devices in the roster",
	Long: `List every device in roster order with its connection details and
the number of tasks assigned to it.

Examples:
  wavelink device list
  wavelink device list --json`,
	Args: cobra.NoArgs,
	RunE: runDeviceList,
}

var (
	deviceListJSON          bool
	deviceListShowPasswords bool
)

func init() {
	deviceCmd.AddCommand(deviceListCmd)

	deviceListCmd.Flags().BoolVar(&deviceListJSON, "json", false, "Output in JSON format")
	deviceListCmd.Flags().BoolVar(&deviceListShowPasswords, "show-passwords", false, "Include passwords in JSON output")
}

func runDeviceList(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	devices := ws.Roster.Snapshot().Devices

	if deviceListJSON {
		return printDevicesJSON(devices, deviceListShowPasswords)
	}

	if len(devices) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No devices configured.")
		_, _ = fmt.Fprintln(os.Stdout, "Add one with: wavelink device add --name <name>")

		return nil
	}

	printDevicesTable(devices)

	return nil
}

func printDevicesTable(devices []model.Device) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	maxName := 10
	maxHost := 10

	for _, d := range devices {
		maxName = max(maxName, min(len(d.Name), 30))
		maxHost = max(maxHost, min(len(d.Host), 30))
	}

	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s  %s  %s  %s  %s\n",
		headerStyle.Render(padRight("ID", 8)),
		headerStyle.Render(padRight("NAME", maxName)),
		headerStyle.Render(padRight("USER", 10)),
		headerStyle.Render(padRight("HOST", maxHost)),
		headerStyle.Render(padRight("IP", 15)),
		headerStyle.Render(padRight("NUMBER", 6)),
		headerStyle.Render("TASKS"),
	)
	_, _ = fmt.Fprintln(os.Stdout, strings.Repeat("-", maxName+maxHost+55))

	total := 0

	for _, d := range devices {
		total += len(d.Tasks)

		_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s  %s  %s  %s  %s\n",
			idStyle.Render(padRight(shortID(d.ID), 8)),
			padRight(truncateString(d.Name, maxName), maxName),
			padRight(truncateString(d.User, 10), 10),
			padRight(truncateString(d.Host, maxHost), maxHost),
			padRight(d.IP, 15),
			padRight(d.Number, 6),
			countStyle.Render(fmt.Sprintf("%d", len(d.Tasks))),
		)
	}

	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintf(os.Stdout, "Total: %d devices, %d tasks\n", len(devices), total)
}

func printDevicesJSON(devices []model.Device, showPasswords bool) error {
	out := model.CloneDevices(devices)
	if out == nil {
		out = []model.Device{}
	}

	if !showPasswords {
		for i := range out {
			out[i].Password = maskPassword(out[i].Password)
		}
	}

	data, err := encoding.ToJSONIndent(out)
	if err != nil {
		return fmt.Errorf("failed to encode devices: %w", err)
	}

	_, _ = fmt.Fprintln(os.Stdout, string(data))

	return nil
}

func maskPassword(p string) string {
	if p == "" {
		return ""
	}

	return "********"
}
