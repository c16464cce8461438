package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inovacc/wavelink/internal/model"
)

// Saver writes a roster snapshot to durable storage.
type Saver interface {
	Save(ctx context.Context, devices []model.Device) error
}

// Persister serializes roster writes through one goroutine. Scheduling a
// snapshot replaces any snapshot not yet written; a snapshot older than one
// already scheduled is dropped.
type Persister struct {
	saver  Saver
	logger *slog.Logger

	saveMu sync.Mutex

	mu        sync.Mutex
	running   bool
	pending   []model.Device
	dirty     bool
	scheduled uint64
	written   uint64
	latest    uint64
	lastErr   error
	notify    chan struct{}
	wake      chan struct{}
	stopCh    chan struct{}
	stoppedCh chan struct{}
	ctx       context.Context
}

// NewPersister creates a persister that writes through saver.
func NewPersister(saver Saver) *Persister {
	return &Persister{
		saver:  saver,
		logger: slog.Default(),
		notify: make(chan struct{}),
		wake:   make(chan struct{}, 1),
		ctx:    context.Background(),
	}
}

// WithLogger sets the logger for the persister
func (p *Persister) WithLogger(logger *slog.Logger) *Persister {
	p.logger = logger
	return p
}

// Start begins the writer goroutine
func (p *Persister) Start(ctx context.Context) error {
	p.mu.Lock()

	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("persister already running")
	}

	p.running = true
	p.ctx = context.WithoutCancel(ctx)
	p.stopCh = make(chan struct{})
	p.stoppedCh = make(chan struct{})
	p.mu.Unlock()

	go p.run(ctx)

	return nil
}

// Stop writes any pending snapshot and stops the writer goroutine
func (p *Persister) Stop() {
	p.mu.Lock()

	if !p.running {
		p.mu.Unlock()
		p.drain()

		return
	}

	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	<-p.stoppedCh
	p.logger.Debug("persister stopped")
}

// IsRunning returns whether the writer goroutine is running
func (p *Persister) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// Schedule queues s for writing and reports whether it was accepted. A
// snapshot whose version is not newer than the latest scheduled one is
// dropped; version 0 is always accepted. It never blocks.
func (p *Persister) Schedule(s Snapshot) bool {
	p.mu.Lock()

	if s.Version != 0 && s.Version <= p.latest {
		latest := p.latest
		p.mu.Unlock()

		p.logger.Debug("dropping stale roster snapshot", "version", s.Version, "latest", latest)

		return false
	}

	if s.Version != 0 {
		p.latest = s.Version
	}

	p.pending = s.Devices
	p.dirty = true
	p.scheduled++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}

	return true
}

// Flush waits until every snapshot scheduled before the call is written and
// returns the error of the most recent save. Without a running writer the
// pending snapshot is written on the calling goroutine.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.scheduled
	running := p.running
	p.mu.Unlock()

	if !running {
		p.drain()
	}

	for {
		p.mu.Lock()

		if p.written >= target {
			err := p.lastErr
			p.mu.Unlock()

			return err
		}

		ch := p.notify
		p.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Persister) run(ctx context.Context) {
	defer close(p.stoppedCh)

	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stopCh:
			p.drain()
			return
		case <-ctx.Done():
			p.drain()

			p.mu.Lock()
			p.running = false
			p.mu.Unlock()

			return
		}
	}
}

// drain writes pending snapshots one at a time until none is left.
func (p *Persister) drain() {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	for {
		p.mu.Lock()

		if !p.dirty {
			p.mu.Unlock()
			return
		}

		devices := p.pending
		seq := p.scheduled
		ctx := p.ctx
		p.pending = nil
		p.dirty = false
		p.mu.Unlock()

		err := p.saver.Save(ctx, devices)
		if err != nil {
			p.logger.Error("failed to persist roster", "error", err, "devices", len(devices))
		} else {
			p.logger.Debug("persisted roster", "devices", len(devices))
		}

		p.mu.Lock()
		p.written = seq
		p.lastErr = err
		close(p.notify)
		p.notify = make(chan struct{})
		p.mu.Unlock()
	}
}
