package roster

import (
	"fmt"
	"slices"
)

// PendingKind identifies a destructive operation awaiting confirmation.
type PendingKind int

const (
	PendingDeviceDeletion PendingKind = iota + 1
	PendingTaskDeletion
	PendingClearAll
)

func (k PendingKind) String() string {
	switch k {
	case PendingDeviceDeletion:
		return "device deletion"
	case PendingTaskDeletion:
		return "task deletion"
	case PendingClearAll:
		return "clear all"
	default:
		return fmt.Sprintf("PendingKind(%d)", int(k))
	}
}

// Pending describes a destructive operation. Building one changes nothing;
// Confirm performs it.
type Pending struct {
	Kind     PendingKind
	DeviceID string
	TaskIDs  []string
	Summary  string
}

// RequestDeleteDevice describes deleting a device and all its tasks.
func (r *Roster) RequestDeleteDevice(id string) (Pending, error) {
	d, ok := r.Device(id)
	if !ok {
		return Pending{}, &NotFoundError{Kind: EntityDevice, ID: id}
	}

	return Pending{
		Kind:     PendingDeviceDeletion,
		DeviceID: id,
		Summary:  fmt.Sprintf("delete device %q and its %d task(s)", d.Name, len(d.Tasks)),
	}, nil
}

// RequestDeleteTasks describes deleting the listed tasks from a device. Ids
// that are not on the device are dropped from the request.
func (r *Roster) RequestDeleteTasks(deviceID string, taskIDs []string) (Pending, error) {
	d, ok := r.Device(deviceID)
	if !ok {
		return Pending{}, &NotFoundError{Kind: EntityDevice, ID: deviceID}
	}

	var present []string

	for _, t := range d.Tasks {
		if slices.Contains(taskIDs, t.ID) {
			present = append(present, t.ID)
		}
	}

	if len(present) == 0 {
		return Pending{}, &ValidationError{Field: "tasks"}
	}

	return Pending{
		Kind:     PendingTaskDeletion,
		DeviceID: deviceID,
		TaskIDs:  present,
		Summary:  fmt.Sprintf("delete %d task(s) from device %q", len(present), d.Name),
	}, nil
}

// RequestClearAll describes wiping every device, task and attachment.
func (r *Roster) RequestClearAll() Pending {
	s := r.Snapshot()

	return Pending{
		Kind:    PendingClearAll,
		Summary: fmt.Sprintf("delete all %d device(s), %d task(s) and their recordings", len(s.Devices), s.TaskCount()),
	}
}

// Confirm performs a pending operation.
func (r *Roster) Confirm(p Pending) (Result, error) {
	switch p.Kind {
	case PendingDeviceDeletion:
		return r.DeleteDevice(p.DeviceID)
	case PendingTaskDeletion:
		if len(p.TaskIDs) == 1 {
			return r.DeleteTask(p.DeviceID, p.TaskIDs[0])
		}

		return r.DeleteTasks(p.DeviceID, p.TaskIDs)
	case PendingClearAll:
		return r.ClearAll()
	default:
		return Result{}, fmt.Errorf("unknown pending operation: %s", p.Kind)
	}
}
