package cmd

import (
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the tasks assigned to devices",
	Long: `Commands for working with tasks.

Each device keeps its tasks in order, numbered from 1. Removing a task
renumbers the tasks after it.

Available Commands:
  assign    Assign a task to one or more devices
  edit      Change a task's fields or audio
  list      List tasks
  play      Play a task's audio
  remove    Remove tasks from a device
  rerecord  Replace a task's audio with a new recording`,
}

func init() {
	rootCmd.AddCommand(taskCmd)
}
