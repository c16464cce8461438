package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/inovacc/wavelink/internal/encoding"
	"github.com/inovacc/wavelink/internal/model"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Back up, restore or clear the roster",
	Long:  `Export, import or wipe the whole roster.`,
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the roster as JSON to stdout",
	Long: `Write every device and task as a JSON backup to stdout.

Recordings are not included; only their names are. Passwords are
included as stored.

Examples:
  wavelink data export > roster.json`,
	Args: cobra.NoArgs,
	RunE: runDataExport,
}

var dataImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the roster with a JSON backup",
	Long: `Replace the whole roster with a backup written by 'wavelink data export'.

Recordings referenced by the backup that are not in the attachment
directory are dropped from their tasks. Recordings that only the current
roster uses are deleted.

Examples:
  wavelink data import --file roster.json
  wavelink data import < roster.json`,
	Args: cobra.NoArgs,
	RunE: runDataImport,
}

var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every device, task and recording",
	Long: `Delete every device and task and every recording in the attachment
directory. This cannot be undone.

Examples:
  wavelink data clear
  wavelink data clear --yes`,
	Args: cobra.NoArgs,
	RunE: runDataClear,
}

var (
	dataImportFile string
	dataImportYes  bool
	dataClearYes   bool
)

// ExportData is the backup document written by data export.
type ExportData struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Devices    []model.Device `json:"devices"`
}

const exportVersion = 1

func init() {
	rootCmd.AddCommand(dataCmd)

	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataClearCmd)

	dataImportCmd.Flags().StringVarP(&dataImportFile, "file", "f", "", "Read from file instead of stdin")
	dataImportCmd.Flags().BoolVarP(&dataImportYes, "yes", "y", false, "Skip confirmation")
	dataClearCmd.Flags().BoolVarP(&dataClearYes, "yes", "y", false, "Skip confirmation")
}

func runDataExport(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	snap := ws.Roster.Snapshot()

	devices := snap.Devices
	if devices == nil {
		devices = []model.Device{}
	}

	data, err := encoding.ToJSONIndent(ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Devices:    devices,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize data: %w", err)
	}

	_, _ = fmt.Fprintln(os.Stdout, string(data))
	_, _ = fmt.Fprintf(os.Stderr, "Exported %d devices, %d tasks\n", len(devices), snap.TaskCount())

	return nil
}

func runDataImport(cmd *cobra.Command, _ []string) error {
	var (
		input []byte
		err   error
	)

	if dataImportFile != "" {
		input, err = os.ReadFile(dataImportFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	}

	backup, err := parseBackup(input)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	summary := fmt.Sprintf("replace %d device(s) with %d device(s) from the backup", ws.Roster.Len(), len(backup.Devices))
	if !confirmAction(summary, dataImportYes) {
		_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
		return nil
	}

	res, repairs := ws.Roster.Replace(backup.Devices)
	if repairs > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Repaired %d problem(s) in the backup\n", repairs)
	}

	if dropped := ws.Roster.DropMissingAttachments(ws.Attachments.Exists); len(dropped.IDs) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Dropped %d missing recording(s)\n", len(dropped.IDs))
	}

	_, _ = fmt.Fprintf(os.Stdout, "Imported %d devices, %d tasks\n", len(res.Snapshot.Devices), res.Snapshot.TaskCount())

	return nil
}

func parseBackup(input []byte) (*ExportData, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("no input data provided")
	}

	backup, err := encoding.ParseJSON[ExportData](input)
	if err != nil {
		return nil, err
	}

	if backup.Version == 0 || backup.Version > exportVersion {
		return nil, fmt.Errorf("unsupported backup version %d", backup.Version)
	}

	return backup, nil
}

func runDataClear(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer closeWorkspace(ws)

	pending := ws.Roster.RequestClearAll()
	if !confirmAction(pending.Summary, dataClearYes) {
		_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
		return nil
	}

	if _, err := ws.Roster.Confirm(pending); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Roster cleared.")

	return nil
}
