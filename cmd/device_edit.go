package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/wavelink/internal/model"
	"github.com/spf13/cobra"
)

var deviceEditCmd = &cobra.Command{
	Use:   "edit [device]",
	Short: "Change a device's connection details",
	Long: `Change the fields of an existing device. Only the flags you pass are
changed; the device's tasks are never touched.

Without a device argument an interactive picker is shown.

Examples:
  wavelink device edit "Pi 1" --ip 10.0.0.21
  wavelink device edit 3f2a --name "Pi 1 (spare)"
  wavelink device edit --ask-password`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeviceEdit,
}

var (
	deviceEditFields      model.DeviceFields
	deviceEditAskPassword bool
)

func init() {
	deviceCmd.AddCommand(deviceEditCmd)

	addDeviceFieldFlags(deviceEditCmd, &deviceEditFields)
	deviceEditCmd.Flags().BoolVar(&deviceEditAskPassword, "ask-password", false, "Prompt for a new password without echo")
}

func runDeviceEdit(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	device, err := resolveDevice(ws, args)
	if err != nil {
		return err
	}

	fields := device.Fields()
	changed := cmd.Flags().Changed

	if changed("name") {
		fields.Name = deviceEditFields.Name
	}

	if changed("user") {
		fields.User = deviceEditFields.User
	}

	if changed("host") {
		fields.Host = deviceEditFields.Host
	}

	if changed("ip") {
		fields.IP = deviceEditFields.IP
	}

	if changed("number") {
		fields.Number = deviceEditFields.Number
	}

	if changed("password") {
		fields.Password = deviceEditFields.Password
	}

	if deviceEditAskPassword {
		password, err := readPassword("New password: ")
		if err != nil {
			return err
		}

		fields.Password = password
	}

	if fields == device.Fields() {
		_, _ = fmt.Fprintln(os.Stdout, "Nothing to change.")
		return nil
	}

	if _, err := ws.Roster.EditDevice(device.ID, fields); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Updated device %s\n", fields.Name)

	return nil
}
