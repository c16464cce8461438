package roster

import "github.com/inovacc/wavelink/internal/model"

// nextNumber is the number a task appended to tasks receives.
func nextNumber(tasks []model.Task) int {
	return len(tasks) + 1
}

// removeAt removes the task at position p and shifts the numbers of the
// suffix down by one. Out of range positions are a no-op.
func removeAt(tasks []model.Task, p int) ([]model.Task, model.Task, bool) {
	if p < 0 || p >= len(tasks) {
		return tasks, model.Task{}, false
	}

	removed := tasks[p]

	out := make([]model.Task, 0, len(tasks)-1)
	out = append(out, tasks[:p]...)

	for _, t := range tasks[p+1:] {
		t.Number--
		out = append(out, t)
	}

	return out, removed, true
}

// removeIDs removes every task whose id is in ids and renumbers the
// survivors 1..N in their existing order.
func removeIDs(tasks []model.Task, ids map[string]struct{}) ([]model.Task, []model.Task) {
	var (
		kept    = make([]model.Task, 0, len(tasks))
		removed []model.Task
	)

	for _, t := range tasks {
		if _, ok := ids[t.ID]; ok {
			removed = append(removed, t)

			continue
		}

		kept = append(kept, t)
	}

	renumber(kept)

	return kept, removed
}

// renumber sets Number to position+1 and reports whether anything changed.
func renumber(tasks []model.Task) bool {
	changed := false

	for i := range tasks {
		if tasks[i].Number != i+1 {
			tasks[i].Number = i + 1
			changed = true
		}
	}

	return changed
}
