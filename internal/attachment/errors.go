package attachment

import "errors"

var (
	// ErrRecordingInProgress is returned when a second recording is started.
	ErrRecordingInProgress = errors.New("a recording is already in progress")

	// ErrNoRecording is returned for a handle that is not the active recording.
	ErrNoRecording = errors.New("no such recording in progress")

	// ErrAttachmentMissing is returned when the backing file does not exist.
	ErrAttachmentMissing = errors.New("attachment file is missing")

	// ErrEmptyRecording is returned when capture produced no audio.
	ErrEmptyRecording = errors.New("recording produced no audio")

	// ErrNoPlayer is returned when playback is requested without a player.
	ErrNoPlayer = errors.New("no audio player configured")

	// ErrInvalidName is returned for names that would escape the store.
	ErrInvalidName = errors.New("invalid attachment name")
)
