package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/inovacc/wavelink/internal/cli"
	"github.com/inovacc/wavelink/internal/core"
	"github.com/inovacc/wavelink/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// openWorkspace opens the roster described by the loaded configuration.
func openWorkspace(cmd *cobra.Command) (*core.Workspace, error) {
	return core.Open(cmd.Context(), cfg, logger)
}

// closeWorkspace writes pending changes; failures are reported, not returned.
func closeWorkspace(ws *core.Workspace) {
	ctx, cancel := core.WithShortTimeout()
	defer cancel()

	if err := ws.Close(ctx); err != nil {
		logger.Error("failed to close workspace", "error", err)
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// promptConfirm asks the user for confirmation and returns true if they confirm
// prompt should include the question (e.g., "Delete this file? [y/N]: ")
func promptConfirm(prompt string) bool {
	_, _ = fmt.Fprint(os.Stdout, prompt)

	var response string

	_, _ = fmt.Scanln(&response)

	return response == "y" || response == "Y"
}

// confirmAction shows summary and asks for confirmation unless yes is set.
func confirmAction(summary string, yes bool) bool {
	if yes {
		return true
	}

	return promptConfirm(fmt.Sprintf("This will %s. Continue? [y/N]: ", summary))
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// resolveDevice finds the device named by args[0] or, on a terminal, lets
// the user pick one.
func resolveDevice(ws *core.Workspace, args []string) (model.Device, error) {
	devices := ws.Roster.Snapshot().Devices

	if len(args) > 0 {
		return matchDevice(devices, args[0])
	}

	if len(devices) == 0 {
		return model.Device{}, errors.New("no devices configured; add one with: wavelink device add --name <name>")
	}

	if !isInteractive() {
		return model.Device{}, errors.New("a device id is required")
	}

	id, err := pickDevice(devices)
	if err != nil {
		return model.Device{}, err
	}

	return matchDevice(devices, id)
}

// pickDevice shows the interactive device picker and returns the chosen id.
func pickDevice(devices []model.Device) (string, error) {
	return cli.Pick(cli.NewDevicePicker(devices))
}

// resolveTask finds the task named by ref or, on a terminal, lets the user
// pick a device and then one of its tasks. It returns the owning device.
func resolveTask(ws *core.Workspace, ref string) (model.Task, model.Device, error) {
	devices := ws.Roster.Snapshot().Devices

	if ref != "" {
		return matchTask(devices, ref)
	}

	device, err := resolveDevice(ws, nil)
	if err != nil {
		return model.Task{}, model.Device{}, err
	}

	if len(device.Tasks) == 0 {
		return model.Task{}, model.Device{}, fmt.Errorf("device %s has no tasks", device.Name)
	}

	id, err := cli.Pick(cli.NewTaskPicker(device))
	if err != nil {
		return model.Task{}, model.Device{}, err
	}

	return matchTask([]model.Device{device}, id)
}

// matchDevice accepts a full id, a unique id prefix or a unique name.
func matchDevice(devices []model.Device, ref string) (model.Device, error) {
	var byPrefix, byName []model.Device

	for _, d := range devices {
		if d.ID == ref {
			return d, nil
		}

		if strings.HasPrefix(d.ID, ref) {
			byPrefix = append(byPrefix, d)
		}

		if d.Name == ref {
			byName = append(byName, d)
		}
	}

	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byPrefix) > 1:
		return model.Device{}, fmt.Errorf("device id %q is ambiguous", ref)
	case len(byName) == 1:
		return byName[0], nil
	case len(byName) > 1:
		return model.Device{}, fmt.Errorf("device name %q is ambiguous; use its id", ref)
	}

	return model.Device{}, fmt.Errorf("device not found: %s", ref)
}

// matchTask accepts a full task id or a unique id prefix.
func matchTask(devices []model.Device, ref string) (model.Task, model.Device, error) {
	var (
		found  []model.Task
		owners []model.Device
	)

	for _, d := range devices {
		for _, t := range d.Tasks {
			if t.ID == ref {
				return t, d, nil
			}

			if strings.HasPrefix(t.ID, ref) {
				found = append(found, t)
				owners = append(owners, d)
			}
		}
	}

	switch len(found) {
	case 1:
		return found[0], owners[0], nil
	case 0:
		return model.Task{}, model.Device{}, fmt.Errorf("task not found: %s", ref)
	default:
		return model.Task{}, model.Device{}, fmt.Errorf("task id %q is ambiguous", ref)
	}
}

// readPassword reads a password without echo on a terminal, or one line
// from piped input.
func readPassword(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(os.Stderr) // New line after password input

		if err != nil {
			return "", err
		}

		return string(password), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}

	return "", fmt.Errorf("failed to read password")
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}

	return s + strings.Repeat(" ", length-len(s))
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}

// shortID returns the first block of a UUID for table output.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}

	return id
}
