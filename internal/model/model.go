package model

import "strings"

// Device is a remote target (historically a "student" Pi) with connection
// metadata and the ordered tasks assigned to it.
type Device struct {
	// ID is the immutable unique identifier (UUID)
	ID string `json:"id"`

	// Name is the display name shown to the operator
	Name string `json:"name"`

	// User is the login user on the device
	User string `json:"piUser"`

	// Host is the device hostname
	Host string `json:"piHost"`

	// IP is the device address
	IP string `json:"ip"`

	// Number is the device port / Pi number
	Number string `json:"piNumber"`

	// Password is stored as entered; it is never encrypted
	Password string `json:"password"`

	// Tasks is the ordered task sequence; Tasks[i].Number == i+1
	Tasks []Task `json:"tasks"`

	// TaskCount caches len(Tasks)
	TaskCount int `json:"taskCount"`
}

// DeviceFields are the mutable fields of a device.
type DeviceFields struct {
	Name     string
	User     string
	Host     string
	IP       string
	Number   string
	Password string
}

// Fields returns the mutable fields of d.
func (d Device) Fields() DeviceFields {
	return DeviceFields{
		Name:     d.Name,
		User:     d.User,
		Host:     d.Host,
		IP:       d.IP,
		Number:   d.Number,
		Password: d.Password,
	}
}

// Apply replaces the mutable fields of d. Tasks are not touched.
func (d *Device) Apply(f DeviceFields) {
	d.Name = strings.TrimSpace(f.Name)
	d.User = f.User
	d.Host = f.Host
	d.IP = f.IP
	d.Number = f.Number
	d.Password = f.Password
}

// Equal reports whether d and other are the same device.
func (d Device) Equal(other Device) bool {
	return d.ID == other.ID
}

// Clone returns a deep copy of d.
func (d Device) Clone() Device {
	out := d
	if d.Tasks != nil {
		out.Tasks = make([]Task, len(d.Tasks))
		copy(out.Tasks, d.Tasks)
	}

	return out
}

// Task is a named, timed unit of work assigned to a device.
type Task struct {
	// ID is the immutable identifier, unique in the whole roster
	ID string `json:"id"`

	// Name is the short task title
	Name string `json:"name"`

	// Number is the 1-based position in the owning device's sequence
	Number int `json:"number"`

	// Time is a display time of day such as "9:00 AM"
	Time string `json:"time"`

	// Description is the free text shown with the task
	Description string `json:"description"`

	// AudioFilePath names the attachment in the attachment store, empty when none
	AudioFilePath string `json:"audioFilePath,omitempty"`
}

// Equal reports whether t and other are the same task.
func (t Task) Equal(other Task) bool {
	return t.ID == other.ID
}

// HasAudio reports whether the task references an attachment.
func (t Task) HasAudio() bool {
	return t.AudioFilePath != ""
}

// CloneDevices deep-copies a device slice.
func CloneDevices(devices []Device) []Device {
	if devices == nil {
		return nil
	}

	out := make([]Device, len(devices))
	for i, d := range devices {
		out[i] = d.Clone()
	}

	return out
}
