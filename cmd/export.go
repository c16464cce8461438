package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/inovacc/wavelink/internal/core"
	"github.com/inovacc/wavelink/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the roster as the device text payload",
	Long: `Render the roster in the flat text format the devices read: one line
per device with its connection fields followed by its tasks.

By default the payload is printed for review. --save writes it as the
export artifact in the attachment directory; --send saves it and hands it
to the transport after confirmation.

Fields are written as entered. A comma or newline inside a field breaks
the line format; such fields are reported as warnings, or refused when
export.strict is set.

Examples:
  wavelink export
  wavelink export --save
  wavelink export --send --target "Pi 1" --yes`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportSave    bool
	exportSend    bool
	exportTargets []string
	exportYes     bool
	exportQuiet   bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportSave, "save", false, "Write the export artifact")
	exportCmd.Flags().BoolVar(&exportSend, "send", false, "Save and send the payload to devices")
	exportCmd.Flags().StringArrayVarP(&exportTargets, "target", "t", nil, "Device to send to (default: all devices)")
	exportCmd.Flags().BoolVarP(&exportYes, "yes", "y", false, "Skip confirmation")
	exportCmd.Flags().BoolVarP(&exportQuiet, "quiet", "q", false, "Do not print the payload")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	flow := ws.NewExport()

	text, err := ws.RenderExport(flow)
	if err != nil {
		return err
	}

	if !exportQuiet {
		_, _ = fmt.Fprint(os.Stdout, text)
	}

	for _, issue := range flow.Issues() {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s\n", issue)
	}

	if !exportSave && !exportSend {
		return nil
	}

	if err := flow.Save(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stderr, "Saved %s\n", ws.ArtifactPath())

	if !exportSend {
		return nil
	}

	return sendExport(cmd, ws, flow)
}

func sendExport(cmd *cobra.Command, ws *core.Workspace, flow *export.Flow) error {
	devices := ws.Roster.Snapshot().Devices

	var targets []string

	if len(exportTargets) == 0 {
		for _, d := range devices {
			targets = append(targets, d.ID)
		}
	}

	for _, ref := range exportTargets {
		d, err := matchDevice(devices, ref)
		if err != nil {
			return err
		}

		targets = append(targets, d.ID)
	}

	if len(targets) == 0 {
		return errors.New("no devices to send to")
	}

	if !confirmAction(fmt.Sprintf("send %s to %d device(s)", flow.ArtifactName(), len(targets)), exportYes) {
		_, _ = fmt.Fprintln(os.Stderr, "Cancelled.")
		return nil
	}

	report, err := flow.Confirm(cmd.Context(), targets)
	if errors.Is(err, export.ErrTransportUnavailable) {
		return fmt.Errorf("sending is not available in this build; copy %s to the devices manually", ws.ArtifactPath())
	}

	if err != nil {
		return err
	}

	for id, sendErr := range report.Failed {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to send to %s: %v\n", shortID(id), sendErr)
	}

	_, _ = fmt.Fprintf(os.Stderr, "Sent to %d device(s)\n", len(report.Delivered))

	return nil
}
