// Package core wires configuration, persistence, attachments, the roster and
// export into a Workspace for the CLI.
//
// Functions in this package return errors instead of printing, except the
// Show helpers which render to the writer they are given.
//
//	ws, err := core.Open(ctx, cfg, logger)
//	if err != nil {
//		return err
//	}
//	defer ws.Close(ctx)
//
// Opening a workspace loads the stored roster, repairs it and drops task
// references to audio files that no longer exist.
package core
