package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deviceRemoveCmd = &cobra.Command{
	Use:   "remove [device]",
	Short: "Remove a device and all of its tasks",
	Long: `Remove a device from the roster. The device's tasks and their audio
attachments are deleted with it.

Examples:
  wavelink device remove "Pi 3"
  wavelink device rm 3f2a --yes`,
	Aliases: []string{"rm", "delete"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDeviceRemove,
}

var deviceRemoveYes bool

func init() {
	deviceCmd.AddCommand(deviceRemoveCmd)

	deviceRemoveCmd.Flags().BoolVarP(&deviceRemoveYes, "yes", "y", false, "Skip confirmation")
}

func runDeviceRemove(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	device, err := resolveDevice(ws, args)
	if err != nil {
		return err
	}

	pending, err := ws.Roster.RequestDeleteDevice(device.ID)
	if err != nil {
		return err
	}

	if !confirmAction(pending.Summary, deviceRemoveYes) {
		_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
		return nil
	}

	if _, err := ws.Roster.Confirm(pending); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Removed device %s\n", device.Name)

	return nil
}
