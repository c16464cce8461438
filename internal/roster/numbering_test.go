package roster

import (
	"fmt"
	"testing"

	"github.com/inovacc/wavelink/internal/model"
	"github.com/stretchr/testify/assert"
)

func numbered(n int) []model.Task {
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{ID: fmt.Sprintf("t%d", i+1), Name: fmt.Sprintf("task %d", i+1), Number: i + 1}
	}

	return tasks
}

func numbers(tasks []model.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.Number
	}

	return out
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}

	return out
}

func TestNextNumber(t *testing.T) {
	assert.Equal(t, 1, nextNumber(nil))
	assert.Equal(t, 4, nextNumber(numbered(3)))
}

func TestRemoveAt_MatchesFullRenumber(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for p := 0; p < n; p++ {
			t.Run(fmt.Sprintf("n%d_p%d", n, p), func(t *testing.T) {
				got, removed, ok := removeAt(numbered(n), p)
				assert.True(t, ok)
				assert.Equal(t, fmt.Sprintf("t%d", p+1), removed.ID)

				want := make([]model.Task, len(got))
				copy(want, got)
				renumber(want)

				assert.Equal(t, want, got)
				assert.Len(t, got, n-1)
			})
		}
	}
}

func TestRemoveAt_NoOp(t *testing.T) {
	tests := []struct {
		name  string
		tasks []model.Task
		pos   int
	}{
		{"empty", nil, 0},
		{"negative", numbered(2), -1},
		{"past end", numbered(2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := removeAt(tt.tasks, tt.pos)
			assert.False(t, ok)
			assert.Equal(t, tt.tasks, got)
		})
	}
}

func TestRemoveIDs(t *testing.T) {
	tasks := numbered(4)
	tasks[1].AudioFilePath = "rec-2.m4a"

	kept, removed := removeIDs(tasks, map[string]struct{}{"t1": {}, "t3": {}, "missing": {}})

	assert.Equal(t, []string{"t2", "t4"}, ids(kept))
	assert.Equal(t, []int{1, 2}, numbers(kept))
	assert.Equal(t, []string{"t1", "t3"}, ids(removed))
	assert.Equal(t, "rec-2.m4a", kept[0].AudioFilePath, "renumbering keeps attachments")
}

func TestRenumber(t *testing.T) {
	tasks := []model.Task{{ID: "a", Number: 3}, {ID: "b", Number: 3}, {ID: "c", Number: 9}}

	assert.True(t, renumber(tasks))
	assert.Equal(t, []int{1, 2, 3}, numbers(tasks))
	assert.Equal(t, []string{"a", "b", "c"}, ids(tasks))
	assert.False(t, renumber(tasks))
}
