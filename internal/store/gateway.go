package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inovacc/wavelink/internal/encoding"
	"github.com/inovacc/wavelink/internal/model"
)

// Gateway loads and saves the roster as JSON in one slot of a Blob.
type Gateway struct {
	blob   Blob
	slot   string
	logger *slog.Logger
}

func NewGateway(blob Blob, slot string) *Gateway {
	return &Gateway{blob: blob, slot: slot, logger: slog.Default()}
}

// WithLogger sets the logger for the gateway
func (g *Gateway) WithLogger(logger *slog.Logger) *Gateway {
	g.logger = logger
	return g
}

// Slot returns the key the roster is stored under.
func (g *Gateway) Slot() string {
	return g.slot
}

// Load returns the stored devices. An absent slot or an undecodable value
// loads as an empty roster; only backend errors are returned.
func (g *Gateway) Load(ctx context.Context) ([]model.Device, error) {
	data, err := g.blob.Get(ctx, g.slot)
	if errors.Is(err, ErrNotFound) {
		return []model.Device{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load roster from %s: %w", g.slot, err)
	}

	devices, err := decode(data)
	if err != nil {
		g.logger.Warn("discarding stored roster", "slot", g.slot, "error", err)
		return []model.Device{}, nil
	}

	return devices, nil
}

// Save replaces the stored devices.
func (g *Gateway) Save(ctx context.Context, devices []model.Device) error {
	if devices == nil {
		devices = []model.Device{}
	}

	data, err := encoding.ToJSON(devices)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	if err := g.blob.Put(ctx, g.slot, data); err != nil {
		return fmt.Errorf("failed to save roster to %s: %w", g.slot, err)
	}

	return nil
}

// Clear removes the slot.
func (g *Gateway) Clear(ctx context.Context) error {
	return g.blob.Delete(ctx, g.slot)
}

func decode(data []byte) ([]model.Device, error) {
	parsed, err := encoding.ParseJSON[[]model.Device](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	devices := *parsed
	if devices == nil {
		devices = []model.Device{}
	}

	for i := range devices {
		if devices[i].Tasks == nil {
			devices[i].Tasks = []model.Task{}
		}
	}

	return devices, nil
}
