package store

import (
	"context"
	"errors"
	"testing"

	"github.com/inovacc/wavelink/internal/logging"
	"github.com/inovacc/wavelink/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenBlob struct {
	*Memory
}

func (brokenBlob) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk unplugged")
}

func roster() []model.Device {
	return []model.Device{
		{
			ID: "d1", Name: "D1", User: "pi", Host: "h", IP: "1.2.3.4", Password: "pw", Number: "1",
			Tasks: []model.Task{
				{ID: "t1", Name: "Feed", Number: 1, Time: "9:00 AM", Description: "Feed fish", AudioFilePath: "rec-a.m4a"},
				{ID: "t2", Name: "Water", Number: 2, Time: "10:00 AM", Description: "Water plants"},
			},
			TaskCount: 2,
		},
		{ID: "d2", Name: "D2", Tasks: []model.Task{}},
	}
}

func TestGateway_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, factory := range backends(t) {
		t.Run(name, func(t *testing.T) {
			db, cleanup := setupTestBlob(t, factory)
			defer cleanup()

			gw := NewGateway(db, t.Name()).WithLogger(logging.Discard())

			require.NoError(t, gw.Save(ctx, roster()))

			got, err := gw.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, roster(), got)

			require.NoError(t, gw.Clear(ctx))
		})
	}
}

func TestGateway_AbsentSlotIsEmpty(t *testing.T) {
	gw := NewGateway(NewMemory(), "students")

	got, err := gw.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGateway_UndecodableSlotIsEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value string
	}{
		{"garbage", "not json"},
		{"wrong shape", `{"id":"d1"}`},
		{"truncated", `[{"id":"d1","name":"D1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemory()
			require.NoError(t, mem.Put(ctx, "students", []byte(tt.value)))

			got, err := NewGateway(mem, "students").WithLogger(logging.Discard()).Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestGateway_DecodeFillsNilTasks(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Put(ctx, "students", []byte(`[{"id":"d1","name":"D1","tasks":null}]`)))

	got, err := NewGateway(mem, "students").Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Tasks)
}

func TestGateway_DecodeError(t *testing.T) {
	_, err := decode([]byte("{"))
	require.ErrorIs(t, err, ErrDecode)
}

func TestGateway_BackendErrorIsReturned(t *testing.T) {
	gw := NewGateway(brokenBlob{NewMemory()}, "students")

	_, err := gw.Load(context.Background())
	require.ErrorContains(t, err, "disk unplugged")
}

func TestGateway_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, NewGateway(mem, "students").Save(ctx, nil))

	raw, err := mem.Get(ctx, "students")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestGateway_KeepsOriginalKeys(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, NewGateway(mem, "students").Save(ctx, roster()[:1]))

	raw, err := mem.Get(ctx, "students")
	require.NoError(t, err)

	for _, key := range []string{`"piUser"`, `"piHost"`, `"ip"`, `"piNumber"`, `"taskCount"`, `"audioFilePath"`} {
		assert.Contains(t, string(raw), key)
	}
}
