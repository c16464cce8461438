package roster

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/inovacc/wavelink/internal/attachment"
	"github.com/inovacc/wavelink/internal/model"
)

// Attachments is the part of the attachment manager the roster drives.
type Attachments interface {
	Release(ref attachment.Ref)
	Duplicate(ref attachment.Ref) (attachment.Ref, error)
	PurgeAll() int
}

// Snapshot is a deep copy of the roster at a point in time.
type Snapshot struct {
	Devices []model.Device
	Version uint64
}

// TaskCount returns the number of tasks across all devices.
func (s Snapshot) TaskCount() int {
	n := 0
	for _, d := range s.Devices {
		n += len(d.Tasks)
	}

	return n
}

// Result is returned by every mutation.
type Result struct {
	IDs      []string
	Snapshot Snapshot
}

// TaskSpec describes a task to assign to one or more devices.
type TaskSpec struct {
	Name        string
	Description string
	Time        string
	Audio       attachment.Ref
}

// TaskEdit replaces the mutable fields of a task. A nil Audio keeps the
// current attachment; a zero Ref removes it.
type TaskEdit struct {
	Name        string
	Description string
	Time        string
	Audio       *attachment.Ref
}

type taskLoc struct {
	device string
	pos    int
}

// Roster is the in-memory device and task store. All mutations are
// serialized and keep task numbers contiguous.
type Roster struct {
	mu        sync.Mutex
	devices   []model.Device
	deviceIdx map[string]int
	taskIdx   map[string]taskLoc
	version   uint64

	attachments Attachments
	persister   *Persister
	logger      *slog.Logger
}

// New creates an empty roster. persister may be nil.
func New(attachments Attachments, persister *Persister) *Roster {
	return &Roster{
		devices:     []model.Device{},
		deviceIdx:   make(map[string]int),
		taskIdx:     make(map[string]taskLoc),
		attachments: attachments,
		persister:   persister,
		logger:      slog.Default(),
	}
}

// WithLogger sets the logger for the roster
func (r *Roster) WithLogger(logger *slog.Logger) *Roster {
	r.logger = logger
	return r
}

// Snapshot returns a deep copy of the current roster.
func (r *Roster) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked()
}

// Len returns the number of devices.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.devices)
}

// Device returns a copy of the device with id.
func (r *Roster) Device(id string) (model.Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.deviceIdx[id]
	if !ok {
		return model.Device{}, false
	}

	return r.devices[i].Clone(), true
}

// Task returns the task with id and the id of the device that owns it.
func (r *Roster) Task(id string) (model.Task, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.taskIdx[id]
	if !ok {
		return model.Task{}, "", false
	}

	return r.devices[r.deviceIdx[loc.device]].Tasks[loc.pos], loc.device, true
}

// AddDevice appends a new device with no tasks.
func (r *Roster) AddDevice(fields model.DeviceFields) (Result, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return Result{}, &ValidationError{Field: "name"}
	}

	r.mu.Lock()

	d := model.Device{ID: r.newIDLocked(), Tasks: []model.Task{}}
	d.Apply(fields)

	r.devices = append(r.devices, d)
	r.deviceIdx[d.ID] = len(r.devices) - 1

	res := r.commitLocked(d.ID)
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// EditDevice replaces the mutable fields of a device.
func (r *Roster) EditDevice(id string, fields model.DeviceFields) (Result, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return Result{}, &ValidationError{Field: "name"}
	}

	r.mu.Lock()

	i, ok := r.deviceIdx[id]
	if !ok {
		r.mu.Unlock()
		return Result{}, &NotFoundError{Kind: EntityDevice, ID: id}
	}

	r.devices[i].Apply(fields)

	res := r.commitLocked()
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// DeleteDevice removes a device and releases every attachment its tasks
// reference. Unknown ids are a no-op.
func (r *Roster) DeleteDevice(id string) (Result, error) {
	r.mu.Lock()

	i, ok := r.deviceIdx[id]
	if !ok {
		res := Result{Snapshot: r.snapshotLocked()}
		r.mu.Unlock()

		return res, nil
	}

	removed := r.devices[i]

	devices := make([]model.Device, 0, len(r.devices)-1)
	devices = append(devices, r.devices[:i]...)
	devices = append(devices, r.devices[i+1:]...)
	r.devices = devices
	r.reindexLocked()

	for _, t := range removed.Tasks {
		r.release(t)
	}

	res := r.commitLocked()
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// AssignTask creates one task on every device in deviceIDs. The call is
// all-or-nothing. The first device takes spec.Audio; every further device
// gets its own duplicate. On error the caller still owns spec.Audio.
func (r *Roster) AssignTask(deviceIDs []string, spec TaskSpec) (Result, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return Result{}, &ValidationError{Field: "name"}
	}

	if strings.TrimSpace(spec.Description) == "" {
		return Result{}, &ValidationError{Field: "description"}
	}

	targets := dedupe(deviceIDs)
	if len(targets) == 0 {
		return Result{}, &ValidationError{Field: "devices"}
	}

	r.mu.Lock()

	for _, id := range targets {
		if _, ok := r.deviceIdx[id]; !ok {
			r.mu.Unlock()
			return Result{}, &NotFoundError{Kind: EntityDevice, ID: id}
		}
	}

	refs := make([]attachment.Ref, len(targets))
	if !spec.Audio.IsZero() && len(targets) > 1 && r.attachments == nil {
		r.mu.Unlock()
		return Result{}, errors.New("roster has no attachment manager to duplicate audio")
	}

	if !spec.Audio.IsZero() {
		refs[0] = spec.Audio

		for i := 1; i < len(targets); i++ {
			dup, err := r.attachments.Duplicate(spec.Audio)
			if err != nil {
				for _, made := range refs[1:i] {
					r.attachments.Release(made)
				}

				r.mu.Unlock()

				return Result{}, err
			}

			refs[i] = dup
		}
	}

	created := make([]string, 0, len(targets))

	for i, id := range targets {
		dev := &r.devices[r.deviceIdx[id]]

		t := model.Task{
			ID:            r.newIDLocked(),
			Name:          spec.Name,
			Number:        nextNumber(dev.Tasks),
			Time:          spec.Time,
			Description:   spec.Description,
			AudioFilePath: refs[i].Name,
		}

		dev.Tasks = append(dev.Tasks, t)
		dev.TaskCount = len(dev.Tasks)
		r.taskIdx[t.ID] = taskLoc{device: id, pos: len(dev.Tasks) - 1}

		created = append(created, t.ID)
	}

	res := r.commitLocked(created...)
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// DeleteTask removes one task and renumbers the tasks after it. Unknown
// device or task ids are a no-op.
func (r *Roster) DeleteTask(deviceID, taskID string) (Result, error) {
	r.mu.Lock()

	loc, ok := r.taskIdx[taskID]
	if !ok || loc.device != deviceID {
		res := Result{Snapshot: r.snapshotLocked()}
		r.mu.Unlock()

		return res, nil
	}

	dev := &r.devices[r.deviceIdx[deviceID]]

	tasks, removed, _ := removeAt(dev.Tasks, loc.pos)
	dev.Tasks = tasks
	dev.TaskCount = len(tasks)

	delete(r.taskIdx, taskID)
	r.reindexTasksLocked(dev)
	r.release(removed)

	res := r.commitLocked()
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// DeleteTasks removes every listed task from one device in a single pass and
// renumbers the survivors. Ids not on the device are ignored.
func (r *Roster) DeleteTasks(deviceID string, taskIDs []string) (Result, error) {
	r.mu.Lock()

	i, ok := r.deviceIdx[deviceID]
	if !ok {
		res := Result{Snapshot: r.snapshotLocked()}
		r.mu.Unlock()

		return res, nil
	}

	set := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		set[id] = struct{}{}
	}

	dev := &r.devices[i]

	kept, removed := removeIDs(dev.Tasks, set)
	if len(removed) == 0 {
		res := Result{Snapshot: r.snapshotLocked()}
		r.mu.Unlock()

		return res, nil
	}

	dev.Tasks = kept
	dev.TaskCount = len(kept)

	for _, t := range removed {
		delete(r.taskIdx, t.ID)
	}

	r.reindexTasksLocked(dev)

	for _, t := range removed {
		r.release(t)
	}

	res := r.commitLocked()
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// EditTask replaces the mutable fields of a task wherever it lives.
func (r *Roster) EditTask(taskID string, edit TaskEdit) (Result, error) {
	if strings.TrimSpace(edit.Name) == "" {
		return Result{}, &ValidationError{Field: "name"}
	}

	if strings.TrimSpace(edit.Description) == "" {
		return Result{}, &ValidationError{Field: "description"}
	}

	r.mu.Lock()

	loc, ok := r.taskIdx[taskID]
	if !ok {
		r.mu.Unlock()
		return Result{}, &NotFoundError{Kind: EntityTask, ID: taskID}
	}

	t := &r.devices[r.deviceIdx[loc.device]].Tasks[loc.pos]
	t.Name = edit.Name
	t.Description = edit.Description
	t.Time = edit.Time

	var superseded model.Task

	if edit.Audio != nil && edit.Audio.Name != t.AudioFilePath {
		superseded = *t
		t.AudioFilePath = edit.Audio.Name
	}

	r.release(superseded)

	res := r.commitLocked()
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// ClearAll empties the roster and purges every allocated attachment.
func (r *Roster) ClearAll() (Result, error) {
	r.mu.Lock()

	r.devices = []model.Device{}
	r.reindexLocked()

	if r.attachments != nil {
		n := r.attachments.PurgeAll()
		r.logger.Info("purged attachments", "count", n)
	}

	res := r.commitLocked()
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, nil
}

// DropMissingAttachments clears the attachment of every task whose file
// exists reports as gone and returns the affected task ids.
func (r *Roster) DropMissingAttachments(exists func(name string) bool) Result {
	r.mu.Lock()

	var dropped []string

	for i := range r.devices {
		for j := range r.devices[i].Tasks {
			t := &r.devices[i].Tasks[j]
			if t.HasAudio() && !exists(t.AudioFilePath) {
				r.logger.Warn("dropping missing attachment", "task", t.ID, "attachment", t.AudioFilePath)
				t.AudioFilePath = ""
				dropped = append(dropped, t.ID)
			}
		}
	}

	if len(dropped) == 0 {
		res := Result{Snapshot: r.snapshotLocked()}
		r.mu.Unlock()

		return res
	}

	res := r.commitLocked(dropped...)
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res
}

// Load replaces the roster with devices, repairing missing or duplicate ids
// and stale numbering. It returns the number of repairs made; a repaired
// roster is scheduled for persistence.
func (r *Roster) Load(devices []model.Device) (Result, int) {
	r.mu.Lock()

	repairs := r.loadLocked(devices)

	res := r.commitLocked()
	r.mu.Unlock()

	if repairs > 0 {
		r.logger.Warn("repaired loaded roster", "repairs", repairs)
		r.schedule(res.Snapshot)
	}

	return res, repairs
}

// Replace swaps in devices like Load, releases attachments that only the
// previous roster referenced and always schedules a write.
func (r *Roster) Replace(devices []model.Device) (Result, int) {
	r.mu.Lock()

	previous := r.devices
	repairs := r.loadLocked(devices)

	kept := make(map[string]struct{})

	for _, d := range r.devices {
		for _, t := range d.Tasks {
			if t.HasAudio() {
				kept[t.AudioFilePath] = struct{}{}
			}
		}
	}

	for _, d := range previous {
		for _, t := range d.Tasks {
			if _, ok := kept[t.AudioFilePath]; !ok {
				r.release(t)
			}
		}
	}

	res := r.commitLocked()
	r.mu.Unlock()

	r.schedule(res.Snapshot)

	return res, repairs
}

func (r *Roster) loadLocked(devices []model.Device) int {
	var (
		out     = make([]model.Device, 0, len(devices))
		seen    = make(map[string]struct{})
		repairs = 0
	)

	fresh := func() string {
		for {
			id := uuid.NewString()
			if _, dup := seen[id]; !dup {
				return id
			}
		}
	}

	for _, src := range devices {
		d := src.Clone()

		if d.ID == "" {
			d.ID = fresh()
			repairs++
		} else if _, dup := seen[d.ID]; dup {
			r.logger.Warn("dropping device with duplicate id", "id", d.ID, "name", d.Name)
			repairs++

			continue
		}

		seen[d.ID] = struct{}{}

		tasks := make([]model.Task, 0, len(d.Tasks))

		for _, t := range d.Tasks {
			if t.ID == "" {
				t.ID = fresh()
				repairs++
			} else if _, dup := seen[t.ID]; dup {
				r.logger.Warn("dropping task with duplicate id", "id", t.ID, "device", d.ID)
				repairs++

				continue
			}

			seen[t.ID] = struct{}{}
			tasks = append(tasks, t)
		}

		if renumber(tasks) {
			repairs++
		}

		if d.TaskCount != len(tasks) {
			repairs++
		}

		d.Tasks = tasks
		d.TaskCount = len(tasks)
		out = append(out, d)
	}

	r.devices = out
	r.reindexLocked()

	return repairs
}

func (r *Roster) commitLocked(ids ...string) Result {
	r.version++

	return Result{IDs: ids, Snapshot: r.snapshotLocked()}
}

func (r *Roster) snapshotLocked() Snapshot {
	return Snapshot{Devices: model.CloneDevices(r.devices), Version: r.version}
}

func (r *Roster) schedule(s Snapshot) {
	if r.persister != nil {
		r.persister.Schedule(s)
	}
}

func (r *Roster) release(t model.Task) {
	if r.attachments == nil || !t.HasAudio() {
		return
	}

	r.attachments.Release(attachment.Ref{Name: t.AudioFilePath})
}

func (r *Roster) newIDLocked() string {
	for {
		id := uuid.NewString()

		_, dev := r.deviceIdx[id]
		_, task := r.taskIdx[id]

		if !dev && !task {
			return id
		}
	}
}

func (r *Roster) reindexLocked() {
	r.deviceIdx = make(map[string]int, len(r.devices))
	r.taskIdx = make(map[string]taskLoc)

	for i := range r.devices {
		r.deviceIdx[r.devices[i].ID] = i
		r.reindexTasksLocked(&r.devices[i])
	}
}

func (r *Roster) reindexTasksLocked(dev *model.Device) {
	for pos, t := range dev.Tasks {
		r.taskIdx[t.ID] = taskLoc{device: dev.ID, pos: pos}
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
