package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inovacc/wavelink/internal/model"
)

// DefaultArtifactName is the well-known file name of the export artifact.
const DefaultArtifactName = "students.txt"

// State is the position of an export in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateRendering
	StateRendered
	StateReadyToTransfer
	StateTransferConfirmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateRendered:
		return "rendered"
	case StateReadyToTransfer:
		return "ready-to-transfer"
	case StateTransferConfirmed:
		return "transfer-confirmed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// IsTerminal reports whether no further transition is possible without Reset.
func IsTerminal(s State) bool {
	return s == StateTransferConfirmed
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateRendering
	case StateRendering:
		return to == StateRendered || to == StateIdle
	case StateRendered:
		return to == StateReadyToTransfer || to == StateIdle
	case StateReadyToTransfer:
		return to == StateTransferConfirmed || to == StateIdle
	default:
		return false
	}
}

// ArtifactWriter stores the rendered export under a name.
type ArtifactWriter interface {
	Write(name string, data []byte) error
}

// Flow drives one export from rendering to transfer.
type Flow struct {
	artifacts ArtifactWriter
	name      string
	strict    bool
	transport Transport
	logger    *slog.Logger

	mu     sync.Mutex
	state  State
	text   string
	issues []FieldIssue
}

// NewFlow creates an idle flow that saves its artifact as name in artifacts.
func NewFlow(artifacts ArtifactWriter, name string) *Flow {
	if name == "" {
		name = DefaultArtifactName
	}

	return &Flow{
		artifacts: artifacts,
		name:      name,
		transport: Unimplemented{},
		logger:    slog.Default(),
	}
}

// WithLogger sets the logger for the flow
func (f *Flow) WithLogger(logger *slog.Logger) *Flow {
	f.logger = logger
	return f
}

// WithStrict makes Render refuse rosters with unsafe fields.
func (f *Flow) WithStrict(strict bool) *Flow {
	f.strict = strict
	return f
}

// WithTransport sets the transport used by Confirm.
func (f *Flow) WithTransport(t Transport) *Flow {
	f.transport = t
	return f
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// Text returns the rendered payload, empty before Render.
func (f *Flow) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.text
}

// Issues returns the lint findings of the last render.
func (f *Flow) Issues() []FieldIssue {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]FieldIssue(nil), f.issues...)
}

// ArtifactName returns the file name Save writes.
func (f *Flow) ArtifactName() string {
	return f.name
}

// Render serializes devices for the operator to review.
func (f *Flow) Render(devices []model.Device) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.transitionLocked(StateIdle, StateRendering); err != nil {
		return "", err
	}

	f.issues = Lint(devices)
	for _, issue := range f.issues {
		f.logger.Warn("export field contains a separator",
			"device", issue.DeviceID, "task", issue.TaskID, "field", issue.Field)
	}

	if f.strict && len(f.issues) > 0 {
		f.state = StateIdle
		return "", fmt.Errorf("%w: %d field(s)", ErrUnsafeFields, len(f.issues))
	}

	f.text = Serialize(devices)
	f.state = StateRendered

	return f.text, nil
}

// Save writes the rendered payload as the export artifact. On failure the
// export is aborted and any earlier artifact is left as it was.
func (f *Flow) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.saveLocked()
}

func (f *Flow) saveLocked() error {
	if err := f.transitionLocked(StateRendered, StateReadyToTransfer); err != nil {
		return err
	}

	if err := f.artifacts.Write(f.name, []byte(f.text)); err != nil {
		f.logger.Error("failed to write export artifact", "name", f.name, "error", err)
		f.reset()

		return fmt.Errorf("%w: %w", ErrArtifactWrite, err)
	}

	f.logger.Info("saved export artifact", "name", f.name, "bytes", len(f.text))

	return nil
}

// Confirm saves the artifact if needed and sends the payload to targets.
// The flow only becomes TransferConfirmed when the transport succeeds.
func (f *Flow) Confirm(ctx context.Context, targets []string) (TransferReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateRendered {
		if err := f.saveLocked(); err != nil {
			return TransferReport{}, err
		}
	}

	if f.state != StateReadyToTransfer {
		return TransferReport{}, &TransitionError{From: f.state, To: StateTransferConfirmed}
	}

	report, err := f.transport.Send(ctx, []byte(f.text), targets)
	if err != nil {
		return report, fmt.Errorf("failed to send export: %w", err)
	}

	if err := f.transitionLocked(StateReadyToTransfer, StateTransferConfirmed); err != nil {
		return report, err
	}

	return report, nil
}

// Reset discards the current export and returns to Idle.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reset()
}

func (f *Flow) reset() {
	f.state = StateIdle
	f.text = ""
	f.issues = nil
}

func (f *Flow) transitionLocked(from, to State) error {
	if f.state != from || !isAllowedTransition(from, to) {
		return &TransitionError{From: f.state, To: to}
	}

	f.state = to

	return nil
}
