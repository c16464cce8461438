// Package cli provides the interactive terminal pickers used when a command
// is run without an explicit device or task id.
//
// The pickers are [Bubbletea] models wrapping a filterable bubbles list and
// follow the Model-View-Update architecture:
//
//	id, err := cli.Pick(cli.NewDevicePicker(snapshot.Devices))
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
package cli
