package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inovacc/wavelink/internal/attachment"
	"github.com/inovacc/wavelink/internal/config"
	"github.com/inovacc/wavelink/internal/export"
	"github.com/inovacc/wavelink/internal/roster"
	"github.com/inovacc/wavelink/internal/store"
)

// Workspace is an open roster together with its storage and attachments.
type Workspace struct {
	Config      *config.Config
	Roster      *roster.Roster
	Attachments *attachment.Manager
	Gateway     *store.Gateway

	blob      store.Blob
	files     *attachment.DirStore
	persister *roster.Persister
	logger    *slog.Logger
}

// Open loads the roster configured by cfg and starts its persister.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}

	blob, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, &OpenError{Component: cfg.Store.Backend + " store", Err: err}
	}

	files, err := attachment.NewDirStore(cfg.Attachments.Dir)
	if err != nil {
		_ = blob.Close()
		return nil, &OpenError{Component: "attachments", Err: err}
	}

	gateway := store.NewGateway(blob, cfg.Store.Slot).WithLogger(logger)

	devices, err := gateway.Load(ctx)
	if err != nil {
		_ = blob.Close()
		return nil, &OpenError{Component: "roster", Err: err}
	}

	manager := attachment.NewManager(files, cfg.Attachments.Extension).
		WithLogger(logger).
		WithPlayer(attachment.ExecPlayer{Command: cfg.Player.Command})

	persister := roster.NewPersister(gateway).WithLogger(logger)
	r := roster.New(manager, persister).WithLogger(logger)

	if _, repairs := r.Load(devices); repairs > 0 {
		logger.Info("roster repaired on load", "repairs", repairs)
	}

	if dropped := r.DropMissingAttachments(manager.Exists); len(dropped.IDs) > 0 {
		logger.Warn("dropped missing recordings", "tasks", len(dropped.IDs))
	}

	if err := persister.Start(ctx); err != nil {
		_ = blob.Close()
		return nil, &OpenError{Component: "persister", Err: err}
	}

	logger.Debug("workspace opened",
		"backend", cfg.Store.Backend,
		"devices", r.Len(),
		"attachments", files.Dir())

	return &Workspace{
		Config:      cfg,
		Roster:      r,
		Attachments: manager,
		Gateway:     gateway,
		blob:        blob,
		files:       files,
		persister:   persister,
		logger:      logger,
	}, nil
}

// Flush waits until every roster change so far has been written.
func (w *Workspace) Flush(ctx context.Context) error {
	return w.persister.Flush(ctx)
}

// Close stops playback, writes pending roster changes and closes the store.
func (w *Workspace) Close(ctx context.Context) error {
	w.Attachments.StopPlayback()

	flushErr := w.persister.Flush(ctx)
	w.persister.Stop()

	if flushErr != nil {
		flushErr = fmt.Errorf("failed to save roster: %w", flushErr)
	}

	return errors.Join(flushErr, w.blob.Close())
}

// ImportAudio stores the audio file at source as a new attachment.
func (w *Workspace) ImportAudio(ctx context.Context, source string) (attachment.Ref, error) {
	h, err := w.Attachments.BeginRecording(ctx, attachment.NewFileCapturer(source))
	if err != nil {
		return attachment.Ref{}, err
	}

	return w.Attachments.FinishRecording(h)
}

// ReplaceAudio deletes the attachment existing refers to, if any, and stores
// source in its place under a new name.
func (w *Workspace) ReplaceAudio(ctx context.Context, existing *attachment.Ref, source string) (attachment.Ref, error) {
	h, err := w.Attachments.Rerecord(ctx, existing, attachment.NewFileCapturer(source))
	if err != nil {
		return attachment.Ref{}, err
	}

	return w.Attachments.FinishRecording(h)
}

// NewExport returns an idle export flow that saves into the attachment
// directory.
func (w *Workspace) NewExport() *export.Flow {
	return export.NewFlow(w.files, w.Config.Export.FileName).
		WithStrict(w.Config.Export.Strict).
		WithLogger(w.logger)
}

// RenderExport drops references to missing audio, then renders the roster.
func (w *Workspace) RenderExport(flow *export.Flow) (string, error) {
	w.Roster.DropMissingAttachments(w.Attachments.Exists)

	return flow.Render(w.Roster.Snapshot().Devices)
}

// ArtifactPath returns the filesystem path of the export artifact.
func (w *Workspace) ArtifactPath() string {
	return w.files.Path(w.Config.Export.FileName)
}
