package attachment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const namePrefix = "rec-"

// Ref is a task's reference to an attachment in the store.
type Ref struct {
	Name string
}

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool {
	return r.Name == ""
}

// Handle identifies the active recording.
type Handle struct {
	id   uint64
	name string
}

// Name returns the attachment name allocated for this recording.
func (h Handle) Name() string {
	return h.name
}

type recording struct {
	handle   Handle
	capturer Capturer
}

type playback struct {
	ref    Ref
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (p *playback) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Manager owns the lifecycle of recorded audio files. At most one recording
// and at most one playback are active at a time.
type Manager struct {
	store     Store
	extension string
	player    Player
	logger    *slog.Logger

	recMu  sync.Mutex
	active *recording
	seq    uint64

	playMu  sync.Mutex
	playing *playback

	trackMu sync.Mutex
	tracked map[string]struct{}
}

// NewManager creates a manager over store. Allocated names end in extension.
func NewManager(store Store, extension string) *Manager {
	return &Manager{
		store:     store,
		extension: extension,
		logger:    slog.Default(),
		tracked:   make(map[string]struct{}),
	}
}

// WithLogger sets the logger for the manager
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	m.logger = logger
	return m
}

// WithPlayer sets the playback collaborator
func (m *Manager) WithPlayer(player Player) *Manager {
	m.player = player
	return m
}

// Store returns the underlying attachment store.
func (m *Manager) Store() Store {
	return m.store
}

// IsAllocated reports whether name has the shape of a name this manager
// hands out, regardless of which process allocated it.
func IsAllocated(name string) bool {
	rest, ok := strings.CutPrefix(name, namePrefix)
	if !ok {
		return false
	}

	id, _, _ := strings.Cut(rest, ".")

	return uuid.Validate(id) == nil
}

func (m *Manager) allocate() string {
	name := namePrefix + uuid.NewString() + m.extension

	m.trackMu.Lock()
	m.tracked[name] = struct{}{}
	m.trackMu.Unlock()

	return name
}

func (m *Manager) untrack(name string) {
	m.trackMu.Lock()
	delete(m.tracked, name)
	m.trackMu.Unlock()
}

// Recording reports whether a recording is active.
func (m *Manager) Recording() bool {
	m.recMu.Lock()
	defer m.recMu.Unlock()

	return m.active != nil
}

// BeginRecording allocates a fresh name and starts capture. It fails fast
// with ErrRecordingInProgress while another recording is active.
func (m *Manager) BeginRecording(ctx context.Context, capturer Capturer) (Handle, error) {
	m.recMu.Lock()
	defer m.recMu.Unlock()

	if m.active != nil {
		return Handle{}, ErrRecordingInProgress
	}

	return m.beginLocked(ctx, capturer)
}

func (m *Manager) beginLocked(ctx context.Context, capturer Capturer) (Handle, error) {
	name := m.allocate()

	if err := capturer.Start(ctx); err != nil {
		m.untrack(name)

		return Handle{}, fmt.Errorf("failed to start recording: %w", err)
	}

	m.seq++
	h := Handle{id: m.seq, name: name}
	m.active = &recording{handle: h, capturer: capturer}

	m.logger.Debug("recording started", "attachment", name)

	return h, nil
}

// FinishRecording stops capture and stores the audio. On failure no
// attachment exists and any partial file is removed.
func (m *Manager) FinishRecording(h Handle) (Ref, error) {
	m.recMu.Lock()
	defer m.recMu.Unlock()

	rec, err := m.takeLocked(h)
	if err != nil {
		return Ref{}, err
	}

	data, err := rec.capturer.Stop()
	if err != nil {
		m.discard(h.name)

		return Ref{}, fmt.Errorf("recording failed: %w", err)
	}

	if len(data) == 0 {
		m.discard(h.name)

		return Ref{}, ErrEmptyRecording
	}

	if err := m.store.Write(h.name, data); err != nil {
		m.discard(h.name)

		return Ref{}, fmt.Errorf("failed to store recording: %w", err)
	}

	m.logger.Debug("recording finished", "attachment", h.name, "bytes", len(data))

	return Ref{Name: h.name}, nil
}

// CancelRecording stops capture and discards the audio.
func (m *Manager) CancelRecording(h Handle) error {
	m.recMu.Lock()
	defer m.recMu.Unlock()

	rec, err := m.takeLocked(h)
	if err != nil {
		return err
	}

	if _, err := rec.capturer.Stop(); err != nil {
		m.logger.Debug("capture stop failed during cancel", "attachment", h.name, "error", err)
	}

	m.discard(h.name)

	return nil
}

func (m *Manager) takeLocked(h Handle) (*recording, error) {
	if m.active == nil || m.active.handle != h {
		return nil, ErrNoRecording
	}

	rec := m.active
	m.active = nil

	return rec, nil
}

// Rerecord deletes the existing attachment's file and starts a new
// recording. Nothing is deleted when a recording is already in progress.
// Callers must have obtained the operator's confirmation first.
func (m *Manager) Rerecord(ctx context.Context, existing *Ref, capturer Capturer) (Handle, error) {
	m.recMu.Lock()
	defer m.recMu.Unlock()

	if m.active != nil {
		return Handle{}, ErrRecordingInProgress
	}

	if existing != nil && !existing.IsZero() {
		m.Release(*existing)
	}

	return m.beginLocked(ctx, capturer)
}

// Duplicate copies an attachment under a freshly allocated name.
func (m *Manager) Duplicate(ref Ref) (Ref, error) {
	data, err := m.store.Read(ref.Name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Ref{}, fmt.Errorf("%w: %s", ErrAttachmentMissing, ref.Name)
		}

		return Ref{}, err
	}

	name := m.allocate()

	if err := m.store.Write(name, data); err != nil {
		m.discard(name)

		return Ref{}, fmt.Errorf("failed to copy attachment: %w", err)
	}

	return Ref{Name: name}, nil
}

// Exists reports whether the named attachment is present in the store.
func (m *Manager) Exists(name string) bool {
	return name != "" && m.store.Exists(name)
}

// Path returns the filesystem path of ref.
func (m *Manager) Path(ref Ref) string {
	return m.store.Path(ref.Name)
}

// Release deletes the backing file of ref. Failures are logged, never
// returned.
func (m *Manager) Release(ref Ref) {
	if ref.IsZero() {
		return
	}

	m.stopIfPlaying(ref)
	m.untrack(ref.Name)

	err := m.store.Delete(ref.Name)

	switch {
	case err == nil:
		m.logger.Debug("attachment released", "attachment", ref.Name)
	case errors.Is(err, os.ErrNotExist):
		m.logger.Debug("attachment already absent", "attachment", ref.Name)
	default:
		m.logger.Warn("failed to delete attachment", "attachment", ref.Name, "error", err)
	}
}

// PurgeAll deletes every attachment this manager allocated, including those
// left by earlier processes, and returns how many files were removed.
func (m *Manager) PurgeAll() int {
	m.StopPlayback()

	targets := make(map[string]struct{})

	names, err := m.store.List()
	if err != nil {
		m.logger.Warn("failed to list attachments", "error", err)
	}

	for _, name := range names {
		if IsAllocated(name) {
			targets[name] = struct{}{}
		}
	}

	m.trackMu.Lock()
	for name := range m.tracked {
		targets[name] = struct{}{}
	}

	m.tracked = make(map[string]struct{})
	m.trackMu.Unlock()

	removed := 0

	for name := range targets {
		err := m.store.Delete(name)

		switch {
		case err == nil:
			removed++
		case errors.Is(err, os.ErrNotExist):
		default:
			m.logger.Warn("failed to purge attachment", "attachment", name, "error", err)
		}
	}

	m.logger.Info("attachments purged", "count", removed)

	return removed
}

func (m *Manager) discard(name string) {
	m.untrack(name)

	if err := m.store.Delete(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("failed to remove partial recording", "attachment", name, "error", err)
	}
}
