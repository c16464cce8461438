// Package roster holds the device and task roster in memory.
//
// Devices are kept in an owning slice with id indexes for devices and tasks.
// Every mutation is serialized, keeps each device's task numbers contiguous
// from 1 and its task count equal to the number of tasks, and hands a deep
// copy of the result to a Persister. Attachment files referenced by removed
// or superseded tasks are released through the attachment manager within
// the same mutation.
package roster
