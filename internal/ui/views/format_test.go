package views

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/todo/internal/models"
)

func TestTaskCountText(t *testing.T) {
	assert.Equal(t, "No tasks", TaskCountText(0))
	assert.Equal(t, "1 task", TaskCountText(1))
	assert.Equal(t, "12 tasks", TaskCountText(12))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "äöü...", Truncate("äöüßé", 3))
}

func TestFormatDate(t *testing.T) {
	assert.Empty(t, FormatDate(time.Time{}))
	assert.Empty(t, FormatDateOnly(time.Time{}))

	ts := time.Date(2026, 3, 4, 15, 7, 0, 0, time.Local)
	assert.Equal(t, "Mar 4, 2026, 03:07 PM", FormatDate(ts))
	assert.Equal(t, "Mar 4, 2026", FormatDateOnly(ts))
}

func TestFilters(t *testing.T) {
	tasks := sampleTasks()

	done := FilterByStatus(tasks, true)
	assert.Len(t, done, 1)
	assert.Len(t, FilterByStatus(tasks, false), 2)

	assert.Len(t, FilterBySearch(tasks, ""), 3)
	assert.Len(t, FilterBySearch(tasks, "  "), 3)
	found := FilterBySearch(tasks, "MILK")
	if assert.Len(t, found, 1) {
		assert.Equal(t, int64(2), found[0].ID)
	}
	assert.Len(t, FilterBySearch(tasks, "numbers"), 1)
	assert.Empty(t, FilterBySearch(tasks, "zebra"))
}

func TestSorts(t *testing.T) {
	tasks := sampleTasks()

	byDate := SortByDate(tasks)
	assert.Equal(t, []int64{3, 2, 1}, ids(byDate))
	assert.Equal(t, []int64{1, 2, 3}, ids(tasks), "input left untouched")

	byTitle := SortAlphabetically(tasks)
	assert.Equal(t, []int64{2, 3, 1}, ids(byTitle))
}

func TestVisibleTasks(t *testing.T) {
	tasks := sampleTasks()

	assert.Equal(t, []int64{1, 2, 3}, ids(visibleTasks(tasks, FilterAll, "", SortServer)))
	assert.Equal(t, []int64{3, 1}, ids(visibleTasks(tasks, FilterActive, "", SortNewest)))
	assert.Equal(t, []int64{3}, ids(visibleTasks(tasks, FilterActive, "plumb", SortTitle)))
	assert.Empty(t, visibleTasks(tasks, FilterCompleted, "report", SortServer))
}

func TestFilterAndSortCycle(t *testing.T) {
	var names []string
	f := FilterAll
	for range 3 {
		names = append(names, f.String())
		f = f.Next()
	}
	assert.Equal(t, "All Active Completed", strings.Join(names, " "))
	assert.Equal(t, FilterAll, f)

	s := SortServer
	assert.Equal(t, "Created", s.String())
	assert.Equal(t, SortServer, s.Next().Next().Next())
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
