package core

import (
	"fmt"
	"io"

	"github.com/inovacc/wavelink/internal/config"
	"github.com/inovacc/wavelink/internal/encoding"
)

// ShowConfig writes the effective configuration to w. The store DSN is
// never printed.
func ShowConfig(w io.Writer, cfg *config.Config, asJSON bool) error {
	if asJSON {
		data, err := encoding.ToJSONIndent(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	}

	file := cfg.File
	if file == "" {
		file = "(none)"
	}

	dsn := "(unset)"
	if cfg.Store.DSN != "" {
		dsn = "(set)"
	}

	_, _ = fmt.Fprintln(w, "Current Configuration:")
	_, _ = fmt.Fprintln(w, "=====================")
	_, _ = fmt.Fprintf(w, "Config File:          %s\n", file)
	_, _ = fmt.Fprintf(w, "Data Directory:       %s\n", cfg.DataDir)
	_, _ = fmt.Fprintf(w, "Store Backend:        %s\n", cfg.Store.Backend)
	_, _ = fmt.Fprintf(w, "Store Slot:           %s\n", cfg.Store.Slot)

	if cfg.Store.Backend == config.BackendPostgres {
		_, _ = fmt.Fprintf(w, "Store DSN:            %s\n", dsn)
	} else {
		_, _ = fmt.Fprintf(w, "Store Path:           %s\n", cfg.Store.Path)
	}

	_, _ = fmt.Fprintf(w, "Attachments:          %s (*%s)\n", cfg.Attachments.Dir, cfg.Attachments.Extension)
	_, _ = fmt.Fprintf(w, "Export File:          %s (strict: %t)\n", cfg.Export.FileName, cfg.Export.Strict)
	_, _ = fmt.Fprintf(w, "Player:               %s\n", cfg.Player.Command)
	_, err := fmt.Fprintf(w, "Log:                  %s/%s\n", cfg.Log.Level, cfg.Log.Format)

	return err
}
