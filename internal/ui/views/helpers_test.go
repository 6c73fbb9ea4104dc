package views

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/todo/internal/api"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/taskstate"
)

// memoryBackend is an in-memory task resource
type memoryBackend struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int64
	fail   string
	calls  int
}

func newMemoryBackend(tasks ...models.Task) *memoryBackend {
	return &memoryBackend{tasks: tasks, nextID: 100}
}

func (b *memoryBackend) failing() (string, bool) {
	b.calls++
	return b.fail, b.fail != ""
}

func (b *memoryBackend) List(_ context.Context, _ int64) api.Result[[]models.Task] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, bad := b.failing(); bad {
		return api.Failure[[]models.Task](msg, http.StatusInternalServerError)
	}
	return api.Result[[]models.Task]{Success: true, Data: append([]models.Task(nil), b.tasks...), StatusCode: http.StatusOK}
}

func (b *memoryBackend) Create(_ context.Context, userID int64, data models.TaskCreate) api.Result[models.Task] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, bad := b.failing(); bad {
		return api.Failure[models.Task](msg, http.StatusBadRequest)
	}
	b.nextID++
	task := models.Task{ID: b.nextID, Title: data.Title, Description: data.Description, UserID: userID, CreatedAt: time.Now()}
	if data.Completed != nil {
		task.Completed = *data.Completed
	}
	b.tasks = append(b.tasks, task)
	return api.Result[models.Task]{Success: true, Data: task, StatusCode: http.StatusCreated}
}

func (b *memoryBackend) find(id int64) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *memoryBackend) Update(_ context.Context, _, taskID int64, data models.TaskUpdate) api.Result[models.Task] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, bad := b.failing(); bad {
		return api.Failure[models.Task](msg, http.StatusBadRequest)
	}
	i := b.find(taskID)
	if i < 0 {
		return api.Failure[models.Task]("Task not found", http.StatusNotFound)
	}
	t := &b.tasks[i]
	if data.Title != nil {
		t.Title = *data.Title
	}
	if data.Description != nil {
		t.Description = data.Description
	}
	if data.Completed != nil {
		t.Completed = *data.Completed
	}
	return api.Result[models.Task]{Success: true, Data: *t, StatusCode: http.StatusOK}
}

func (b *memoryBackend) SetCompleted(ctx context.Context, userID, taskID int64, completed bool) api.Result[models.Task] {
	return b.Update(ctx, userID, taskID, models.TaskUpdate{Completed: &completed})
}

func (b *memoryBackend) Delete(_ context.Context, _, taskID int64) api.Result[api.Empty] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, bad := b.failing(); bad {
		return api.Failure[api.Empty](msg, http.StatusInternalServerError)
	}
	i := b.find(taskID)
	if i < 0 {
		return api.Failure[api.Empty]("Task not found", http.StatusNotFound)
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	return api.Result[api.Empty]{Success: true, StatusCode: http.StatusNoContent}
}

func (b *memoryBackend) setFail(msg string) {
	b.mu.Lock()
	b.fail = msg
	b.mu.Unlock()
}

// drain runs cmd and feeds the messages it produces back into m until
// nothing is left. Spinner and cursor ticks are dropped; every other
// message that m does not consume is returned.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("too many commands")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case loadDoneMsg, mutationDoneMsg, loginResultMsg:
			_, c := m.Update(msg)
			queue = append(queue, c)
		case LoggedIn, LoggedOut, ThemeChanged, tea.QuitMsg:
			out = append(out, msg)
		}
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and drains the resulting commands
func press(t *testing.T, m tea.Model, s string) []tea.Msg {
	t.Helper()
	_, cmd := m.Update(keyMsg(s))
	return drain(t, m, cmd)
}

var testUser = models.User{ID: 1, Email: "test@example.com", Token: "t", IsLoggedIn: true}

func newTestList(t *testing.T, backend *memoryBackend) *TaskListView {
	t.Helper()
	store := taskstate.New(backend, nil)
	v := NewTaskListView(context.Background(), store, testUser)
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(t, v, v.Init())
	return v
}
