package export

import (
	"fmt"
	"strings"

	"github.com/inovacc/wavelink/internal/model"
)

const unsafeChars = ",\n\r"

// FieldIssue is a field whose value would corrupt the export line.
type FieldIssue struct {
	DeviceID string
	TaskID   string
	Field    string
	Value    string
}

func (i FieldIssue) String() string {
	if i.TaskID != "" {
		return fmt.Sprintf("device %s task %s: %s %q contains a separator", i.DeviceID, i.TaskID, i.Field, i.Value)
	}

	return fmt.Sprintf("device %s: %s %q contains a separator", i.DeviceID, i.Field, i.Value)
}

// Lint reports every exported field that contains a comma or line break.
func Lint(devices []model.Device) []FieldIssue {
	var issues []FieldIssue

	check := func(deviceID, taskID, field, value string) {
		if strings.ContainsAny(value, unsafeChars) {
			issues = append(issues, FieldIssue{DeviceID: deviceID, TaskID: taskID, Field: field, Value: value})
		}
	}

	for _, d := range devices {
		check(d.ID, "", "name", d.Name)
		check(d.ID, "", "user", d.User)
		check(d.ID, "", "host", d.Host)
		check(d.ID, "", "ip", d.IP)
		check(d.ID, "", "password", d.Password)
		check(d.ID, "", "number", d.Number)

		for _, t := range d.Tasks {
			check(d.ID, t.ID, "name", t.Name)
			check(d.ID, t.ID, "audio", t.AudioFilePath)
			check(d.ID, t.ID, "time", t.Time)
		}
	}

	return issues
}
