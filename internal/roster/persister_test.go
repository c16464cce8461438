package roster

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/inovacc/wavelink/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	mu       sync.Mutex
	saves    [][]model.Device
	inFlight int
	overlap  bool
	gate     chan struct{}
	err      error
}

func (s *recordingSaver) Save(_ context.Context, devices []model.Device) error {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > 1 {
		s.overlap = true
	}
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight--
	s.saves = append(s.saves, devices)

	return s.err
}

func (s *recordingSaver) snapshot() [][]model.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]model.Device(nil), s.saves...)
}

func snapshotOf(version uint64, names ...string) Snapshot {
	return Snapshot{Devices: devicesNamed(names...), Version: version}
}

func devicesNamed(names ...string) []model.Device {
	out := make([]model.Device, len(names))
	for i, n := range names {
		out[i] = model.Device{ID: n, Name: n, Tasks: []model.Task{}}
	}

	return out
}

func TestPersister_FlushWritesLatest(t *testing.T) {
	saver := &recordingSaver{}
	p := NewPersister(saver)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	defer p.Stop()

	p.Schedule(snapshotOf(1, "a"))
	p.Schedule(snapshotOf(2, "a", "b"))

	require.NoError(t, p.Flush(ctx))

	saves := saver.snapshot()
	require.NotEmpty(t, saves)
	assert.Equal(t, devicesNamed("a", "b"), saves[len(saves)-1])
}

func TestPersister_CoalescesWhileWriting(t *testing.T) {
	saver := &recordingSaver{gate: make(chan struct{})}
	p := NewPersister(saver)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))

	p.Schedule(snapshotOf(1, "first"))

	require.Eventually(t, func() bool {
		saver.mu.Lock()
		defer saver.mu.Unlock()

		return saver.inFlight == 1
	}, time.Second, 5*time.Millisecond)

	p.Schedule(snapshotOf(2, "second"))
	p.Schedule(snapshotOf(3, "third"))

	close(saver.gate)

	require.NoError(t, p.Flush(ctx))
	p.Stop()

	saves := saver.snapshot()
	require.Len(t, saves, 2)
	assert.Equal(t, devicesNamed("first"), saves[0])
	assert.Equal(t, devicesNamed("third"), saves[1])
	assert.False(t, saver.overlap)
}

func TestPersister_StopWritesPending(t *testing.T) {
	saver := &recordingSaver{}
	p := NewPersister(saver)

	require.NoError(t, p.Start(context.Background()))

	p.Schedule(snapshotOf(1, "a"))
	p.Stop()

	assert.False(t, p.IsRunning())

	saves := saver.snapshot()
	require.NotEmpty(t, saves)
	assert.Equal(t, devicesNamed("a"), saves[len(saves)-1])
}

func TestPersister_FlushWithoutWriter(t *testing.T) {
	saver := &recordingSaver{}
	p := NewPersister(saver)

	p.Schedule(snapshotOf(1, "a"))

	require.NoError(t, p.Flush(context.Background()))
	assert.Len(t, saver.snapshot(), 1)
}

func TestPersister_FlushReportsSaveError(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	p := NewPersister(saver)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	defer p.Stop()

	p.Schedule(snapshotOf(1, "a"))

	require.EqualError(t, p.Flush(ctx), "disk full")
}

func TestPersister_StartTwice(t *testing.T) {
	p := NewPersister(&recordingSaver{})

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Error(t, p.Start(context.Background()))
}

func TestRoster_SchedulesOnlyStateChanges(t *testing.T) {
	saver := &recordingSaver{}
	p := NewPersister(saver)
	r := New(&fakeAttachments{}, p)

	ctx := context.Background()

	res, err := r.AddDevice(model.DeviceFields{Name: "D1"})
	require.NoError(t, err)
	require.NoError(t, p.Flush(ctx))
	require.Len(t, saver.snapshot(), 1)

	_, err = r.AddDevice(model.DeviceFields{})
	require.Error(t, err)

	_, err = r.DeleteDevice("missing")
	require.NoError(t, err)

	_, err = r.DeleteTask(res.IDs[0], "missing")
	require.NoError(t, err)

	require.NoError(t, p.Flush(ctx))
	assert.Len(t, saver.snapshot(), 1, "rejected and no-op operations do not write")

	_, err = r.AssignTask(res.IDs, TaskSpec{Name: "Feed", Description: "Feed fish"})
	require.NoError(t, err)
	require.NoError(t, p.Flush(ctx))

	saves := saver.snapshot()
	require.Len(t, saves, 2)
	assert.Len(t, saves[1][0].Tasks, 1)
}

func TestPersister_DropsStaleSnapshot(t *testing.T) {
	saver := &recordingSaver{}
	p := NewPersister(saver)

	assert.True(t, p.Schedule(snapshotOf(3, "a", "b", "c")))
	assert.False(t, p.Schedule(snapshotOf(2, "a", "b")), "older version must be dropped")
	assert.False(t, p.Schedule(snapshotOf(3, "a", "b", "c")), "same version is not rescheduled")

	require.NoError(t, p.Flush(context.Background()))

	saves := saver.snapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, devicesNamed("a", "b", "c"), saves[0])

	assert.True(t, p.Schedule(snapshotOf(0, "unversioned")))
}

func TestRoster_ConcurrentMutationsPersistNewest(t *testing.T) {
	const workers = 8

	for round := 0; round < 50; round++ {
		saver := &recordingSaver{}
		p := NewPersister(saver)
		r := New(&fakeAttachments{}, p)

		ctx := context.Background()
		require.NoError(t, p.Start(ctx))

		var wg sync.WaitGroup

		for i := 0; i < workers; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := r.AddDevice(model.DeviceFields{Name: "D"})
				assert.NoError(t, err)
			}()
		}

		wg.Wait()
		require.NoError(t, p.Flush(ctx))
		p.Stop()

		saves := saver.snapshot()
		require.NotEmpty(t, saves)
		require.Len(t, saves[len(saves)-1], workers, "round %d wrote a stale roster last", round)
	}
}
