package attachment

import (
	"context"
	"errors"
)

// Play starts playing ref. Whatever was playing is stopped first. A missing
// file fails with ErrAttachmentMissing and leaves playback untouched.
func (m *Manager) Play(ctx context.Context, ref Ref) error {
	if !m.Exists(ref.Name) {
		return ErrAttachmentMissing
	}

	m.playMu.Lock()
	defer m.playMu.Unlock()

	return m.playLocked(ctx, ref)
}

// Toggle pauses ref when it is the attachment playing, otherwise plays it.
// It reports whether ref is playing afterwards.
func (m *Manager) Toggle(ctx context.Context, ref Ref) (bool, error) {
	if !m.Exists(ref.Name) {
		return false, ErrAttachmentMissing
	}

	m.playMu.Lock()
	defer m.playMu.Unlock()

	if m.playing != nil && !m.playing.finished() && m.playing.ref == ref {
		m.stopLocked()

		return false, nil
	}

	if err := m.playLocked(ctx, ref); err != nil {
		return false, err
	}

	return true, nil
}

func (m *Manager) playLocked(ctx context.Context, ref Ref) error {
	if m.player == nil {
		return ErrNoPlayer
	}

	m.stopLocked()

	pctx, cancel := context.WithCancel(ctx)
	p := &playback{ref: ref, cancel: cancel, done: make(chan struct{})}
	m.playing = p

	path := m.store.Path(ref.Name)
	player := m.player

	go func() {
		defer close(p.done)

		err := player.Play(pctx, path)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.err = err
			m.logger.Warn("playback failed", "attachment", ref.Name, "error", err)
		}
	}()

	m.logger.Debug("playback started", "attachment", ref.Name)

	return nil
}

// StopPlayback stops the current playback, if any.
func (m *Manager) StopPlayback() {
	m.playMu.Lock()
	defer m.playMu.Unlock()

	m.stopLocked()
}

// stopLocked cancels the current playback and waits for the player to return.
func (m *Manager) stopLocked() {
	if m.playing == nil {
		return
	}

	m.playing.cancel()
	<-m.playing.done
	m.playing = nil
}

func (m *Manager) stopIfPlaying(ref Ref) {
	m.playMu.Lock()
	defer m.playMu.Unlock()

	if m.playing != nil && m.playing.ref == ref {
		m.stopLocked()
	}
}

// NowPlaying returns the attachment currently playing.
func (m *Manager) NowPlaying() (Ref, bool) {
	m.playMu.Lock()
	defer m.playMu.Unlock()

	if m.playing == nil || m.playing.finished() {
		return Ref{}, false
	}

	return m.playing.ref, true
}

// WaitPlayback blocks until the current playback ends or ctx is done and
// returns the player's error.
func (m *Manager) WaitPlayback(ctx context.Context) error {
	m.playMu.Lock()
	p := m.playing
	m.playMu.Unlock()

	if p == nil {
		return nil
	}

	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
