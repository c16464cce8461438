package attachment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Capturer is the audio capture collaborator. Start begins capturing and
// Stop ends it, returning the encoded audio.
type Capturer interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
}

// FileCapturer "records" by importing an existing audio file. It stands in
// for a microphone on hosts where capture happens elsewhere.
type FileCapturer struct {
	Source string

	mu      sync.Mutex
	started bool
}

// NewFileCapturer returns a capturer that imports source.
func NewFileCapturer(source string) *FileCapturer {
	return &FileCapturer{Source: source}
}

func (c *FileCapturer) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.Source)
	if err != nil {
		return fmt.Errorf("audio source %s: %w", c.Source, err)
	}

	if info.IsDir() {
		return fmt.Errorf("audio source %s is a directory", c.Source)
	}

	c.started = true

	return nil
}

func (c *FileCapturer) Stop() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil, errors.New("capture was not started")
	}

	c.started = false

	data, err := os.ReadFile(c.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio source: %w", err)
	}

	return data, nil
}
