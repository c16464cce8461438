package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/wavelink/internal/model"
	"github.com/spf13/cobra"
)

var deviceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a device to the roster",
	Long: `Add a device to the roster.

Only the name is required. The password is stored as entered and is
written to the export in plain text.

Examples:
  wavelink device add --name "Pi 1" --user pi --host pi1.local --ip 10.0.0.11 --number 1
  wavelink device add --name "Pi 2" --ask-password`,
	Args: cobra.NoArgs,
	RunE: runDeviceAdd,
}

var (
	deviceAddFields      model.DeviceFields
	deviceAddAskPassword bool
)

func init() {
	deviceCmd.AddCommand(deviceAddCmd)

	addDeviceFieldFlags(deviceAddCmd, &deviceAddFields)
	deviceAddCmd.Flags().BoolVar(&deviceAddAskPassword, "ask-password", false, "Prompt for the password without echo")
}

// addDeviceFieldFlags registers one flag per mutable device field.
func addDeviceFieldFlags(cmd *cobra.Command, f *model.DeviceFields) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&f.User, "user", "", "Login user on the device")
	cmd.Flags().StringVar(&f.Host, "host", "", "Device hostname")
	cmd.Flags().StringVar(&f.IP, "ip", "", "Device address")
	cmd.Flags().StringVar(&f.Number, "number", "", "Device number or port")
	cmd.Flags().StringVar(&f.Password, "password", "", "Device password (stored unencrypted)")
}

func runDeviceAdd(cmd *cobra.Command, _ []string) error {
	fields := deviceAddFields

	if deviceAddAskPassword {
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		fields.Password = password
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	res, err := ws.Roster.AddDevice(fields)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Added device %s (%s)\n", fields.Name, res.IDs[0])

	return nil
}
