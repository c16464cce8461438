package cmd

import (
	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:     "device",
	Aliases: []string{"devices", "dev"},
	Short:   "Manage roster devices",
	Long: `Commands for working with the devices in the roster.

Available Commands:
  add     Add a device
  edit    Change a device's connection details
  list    List devices and their task counts
  remove  Remove a device and its tasks

Devices can be named by full id, a unique id prefix or a unique name.`,
}

func init() {
	rootCmd.AddCommand(deviceCmd)
}
