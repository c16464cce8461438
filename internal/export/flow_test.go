package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/inovacc/wavelink/internal/attachment"
	"github.com/inovacc/wavelink/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write(string, []byte) error {
	return errors.New("read-only file system")
}

type recordingTransport struct {
	payload []byte
	targets []string
}

func (r *recordingTransport) Send(_ context.Context, payload []byte, targets []string) (TransferReport, error) {
	r.payload = payload
	r.targets = targets

	return TransferReport{Delivered: targets}, nil
}

func newDirFlow(t *testing.T) (*Flow, *attachment.DirStore) {
	t.Helper()

	store, err := attachment.NewDirStore(t.TempDir())
	require.NoError(t, err)

	return NewFlow(store, ""), store
}

func TestFlow_RenderAndSave(t *testing.T) {
	f, store := newDirFlow(t)
	assert.Equal(t, StateIdle, f.State())

	text, err := f.Render([]model.Device{sampleDevice()})
	require.NoError(t, err)
	assert.Equal(t, "D1,pi,h,1.2.3.4,pw,1,1,Feed,,9:00 AM\n", text)
	assert.Equal(t, StateRendered, f.State())

	require.NoError(t, f.Save())
	assert.Equal(t, StateReadyToTransfer, f.State())

	data, err := store.Read(DefaultArtifactName)
	require.NoError(t, err)
	assert.Equal(t, text, string(data))
}

func TestFlow_InvalidTransitions(t *testing.T) {
	f, _ := newDirFlow(t)

	err := f.Save()
	require.ErrorIs(t, err, ErrInvalidTransition)

	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, StateIdle, terr.From)
	assert.Equal(t, StateReadyToTransfer, terr.To)

	_, err = f.Confirm(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.Render(nil)
	require.NoError(t, err)

	_, err = f.Render(nil)
	require.ErrorIs(t, err, ErrInvalidTransition, "render twice without reset")
}

func TestFlow_SaveFailureKeepsPreviousArtifact(t *testing.T) {
	f, store := newDirFlow(t)

	_, err := f.Render([]model.Device{sampleDevice()})
	require.NoError(t, err)
	require.NoError(t, f.Save())

	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	// make the directory unwritable for the second export
	dir := filepath.Dir(store.Path(DefaultArtifactName))
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	f.Reset()

	changed := sampleDevice()
	changed.Name = "D9"

	_, err = f.Render([]model.Device{changed})
	require.NoError(t, err)

	err = f.Save()
	require.ErrorIs(t, err, ErrArtifactWrite)
	assert.Equal(t, StateIdle, f.State())
	assert.Empty(t, f.Text())

	data, err := store.Read(DefaultArtifactName)
	require.NoError(t, err)
	assert.Equal(t, "D1,pi,h,1.2.3.4,pw,1,1,Feed,,9:00 AM\n", string(data))
}

func TestFlow_WriterFailureAborts(t *testing.T) {
	f := NewFlow(failingWriter{}, "out.txt")

	_, err := f.Render([]model.Device{sampleDevice()})
	require.NoError(t, err)

	_, err = f.Confirm(context.Background(), []string{"d1"})
	require.ErrorIs(t, err, ErrArtifactWrite)
	assert.Equal(t, StateIdle, f.State())
}

func TestFlow_Strict(t *testing.T) {
	dirty := sampleDevice()
	dirty.Name = "a,b"

	t.Run("lenient renders and reports", func(t *testing.T) {
		f, _ := newDirFlow(t)

		text, err := f.Render([]model.Device{dirty})
		require.NoError(t, err)
		assert.Contains(t, text, "a,b,pi")
		assert.Len(t, f.Issues(), 1)
	})

	t.Run("strict refuses", func(t *testing.T) {
		f, _ := newDirFlow(t)
		f.WithStrict(true)

		_, err := f.Render([]model.Device{dirty})
		require.ErrorIs(t, err, ErrUnsafeFields)
		assert.Equal(t, StateIdle, f.State())
	})
}

func TestFlow_ConfirmWithTransport(t *testing.T) {
	f, store := newDirFlow(t)

	tr := &recordingTransport{}
	f.WithTransport(tr)

	text, err := f.Render([]model.Device{sampleDevice()})
	require.NoError(t, err)

	report, err := f.Confirm(context.Background(), []string{"d1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, report.Delivered)
	assert.Equal(t, text, string(tr.payload))
	assert.Equal(t, StateTransferConfirmed, f.State())
	assert.True(t, IsTerminal(f.State()))
	assert.True(t, store.Exists(DefaultArtifactName), "confirm saves an unsaved render")

	_, err = f.Confirm(context.Background(), []string{"d1"})
	require.ErrorIs(t, err, ErrInvalidTransition)

	f.Reset()
	assert.Equal(t, StateIdle, f.State())
}

func TestFlow_UnimplementedTransport(t *testing.T) {
	f, _ := newDirFlow(t)

	_, err := f.Render([]model.Device{sampleDevice()})
	require.NoError(t, err)
	require.NoError(t, f.Save())

	_, err = f.Confirm(context.Background(), []string{"d1"})
	require.ErrorIs(t, err, ErrTransportUnavailable)
	assert.Equal(t, StateReadyToTransfer, f.State(), "the saved artifact can still be sent later")
}
