package attachment

import (
	"context"
	"os/exec"
	"strings"
)

// Player is the playback collaborator. Play blocks until the file has been
// played or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, path string) error
}

// ExecPlayer plays files with an external command, e.g. "aplay" or
// "ffplay -nodisp -autoexit". The file path is appended as the last argument.
type ExecPlayer struct {
	Command string
}

func (p ExecPlayer) Play(ctx context.Context, path string) error {
	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		return ErrNoPlayer
	}

	args := append(fields[1:], path)

	err := exec.CommandContext(ctx, fields[0], args...).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}
