// Package attachment manages the audio files referenced by tasks.
//
// A [Manager] allocates attachment names (rec-<uuid><ext>), drives the
// external [Capturer] through a begin/finish recording cycle, releases files
// when tasks go away and purges everything on "delete all data". Recording
// and playback are capacity-one resources: starting a second recording fails
// with [ErrRecordingInProgress], while starting playback of another
// attachment stops the current one first.
//
// Files live in a [Store]; [DirStore] keeps them in one directory and writes
// atomically. Deletion failures are logged and never returned to callers.
package attachment
