package views

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tgienger/todo/internal/models"
)

// TaskCountText renders a task count for display
func TaskCountText(n int) string {
	switch n {
	case 0:
		return "No tasks"
	case 1:
		return "1 task"
	default:
		return fmt.Sprintf("%d tasks", n)
	}
}

// Truncate shortens s to at most n characters followed by "..."
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// FormatDate renders a timestamp with date and time, "" for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006, 03:04 PM")
}

// FormatDateOnly renders the date part of a timestamp
func FormatDateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006")
}

// Filter selects tasks by completion
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles all → active → completed
func (f Filter) Next() Filter {
	return (f + 1) % 3
}

// Sort orders the visible tasks
type Sort int

const (
	SortServer Sort = iota
	SortNewest
	SortTitle
)

func (s Sort) String() string {
	switch s {
	case SortNewest:
		return "Newest"
	case SortTitle:
		return "A-Z"
	default:
		return "Created"
	}
}

// Next cycles the sort modes
func (s Sort) Next() Sort {
	return (s + 1) % 3
}

// FilterByStatus keeps the tasks whose completion equals completed
func FilterByStatus(tasks []models.Task, completed bool) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// FilterBySearch keeps tasks whose title or description contains term,
// ignoring case. An empty term keeps everything.
func FilterBySearch(tasks []models.Task, term string) []models.Task {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return tasks
	}
	var out []models.Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), term) ||
			strings.Contains(strings.ToLower(t.DescriptionText()), term) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDate returns a copy ordered newest first
func SortByDate(tasks []models.Task) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

// SortAlphabetically returns a copy ordered by title
func SortAlphabetically(tasks []models.Task) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
	return out
}

// visibleTasks applies filter, search and sort in that order.
func visibleTasks(tasks []models.Task, filter Filter, search string, order Sort) []models.Task {
	switch filter {
	case FilterActive:
		tasks = FilterByStatus(tasks, false)
	case FilterCompleted:
		tasks = FilterByStatus(tasks, true)
	}
	tasks = FilterBySearch(tasks, search)
	switch order {
	case SortNewest:
		tasks = SortByDate(tasks)
	case SortTitle:
		tasks = SortAlphabetically(tasks)
	}
	return tasks
}
