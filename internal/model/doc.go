// Package model defines the data structures used throughout WaveLink.
//
// # Device
//
// The [Device] struct represents a remote target that receives tasks:
//
//	type Device struct {
//	    ID        string // Unique identifier (UUID)
//	    Name      string // Display name
//	    User      string // Login user
//	    Host      string // Hostname
//	    IP        string // Address
//	    Number    string // Port / Pi number
//	    Password  string // Opaque, stored as entered
//	    Tasks     []Task // Ordered task sequence
//	    TaskCount int    // Always len(Tasks)
//	}
//
// # Task
//
// The [Task] struct is one entry of a device's sequence. Number is the 1-based
// position in that sequence and AudioFilePath names an attachment managed by
// the attachment package.
//
// Both entities compare by ID only. The JSON field names match the blob
// written by earlier releases (piUser, piHost, piNumber, taskCount).
package model
