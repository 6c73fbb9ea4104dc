// Package taskstate is the in-memory, session-scoped mirror of one user's
// task list. The collection only changes after the server confirms a
// mutation.
package taskstate

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tgienger/todo/internal/api"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/validate"
)

// Messages reported when the backend gives no reason.
const (
	MsgFetchFailed      = "Failed to fetch tasks"
	MsgCreateFailed     = "Failed to create task"
	MsgUpdateFailed     = "Failed to update task"
	MsgCompletionFailed = "Failed to update task completion"
	MsgDeleteFailed     = "Failed to delete task"
	MsgNotFound         = "Task not found"
	MsgStale            = "session changed before the response arrived"
)

// historyLimit bounds how many finished operations are remembered.
const historyLimit = 64

// Backend is the task resource service
type Backend interface {
	List(ctx context.Context, userID int64) api.Result[[]models.Task]
	Create(ctx context.Context, userID int64, data models.TaskCreate) api.Result[models.Task]
	Update(ctx context.Context, userID, taskID int64, data models.TaskUpdate) api.Result[models.Task]
	SetCompleted(ctx context.Context, userID, taskID int64, completed bool) api.Result[models.Task]
	Delete(ctx context.Context, userID, taskID int64) api.Result[api.Empty]
}

// Outcome is the result of one operation, returned to the caller so it can
// react without reading the shared error slot.
type Outcome struct {
	OpID    string
	Success bool
	Error   string
	Task    *models.Task
}

// Store holds the task collection of the active user
type Store struct {
	backend Backend
	logger  *log.Logger

	mu         sync.Mutex
	userID     int64
	generation uint64
	tasks      []models.Task
	err        string
	ops        map[string]*Operation
	finished   []string

	loads singleflight.Group
}

// New creates an empty store with no active user
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		backend: backend,
		logger:  logger,
		ops:     make(map[string]*Operation),
	}
}

// UserID returns the active user, 0 when none
func (s *Store) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Tasks returns a copy of the collection in server order
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Task returns the task with id from the collection
func (s *Store) Task(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// Err returns the most recent error, "" after a successful operation
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Activate discards the collection, binds userID and loads its tasks
func (s *Store) Activate(ctx context.Context, userID int64) Outcome {
	if res := validate.ValidateUserID(userID); !res.IsValid {
		s.mu.Lock()
		s.err = res.Error
		s.mu.Unlock()
		return Outcome{Error: res.Error}
	}

	s.mu.Lock()
	s.generation++
	s.userID = userID
	s.tasks = nil
	s.err = ""
	s.mu.Unlock()

	s.logger.Debug("activated", "user", userID)
	return s.Load(ctx)
}

// Reset drops the active user and everything known about it
func (s *Store) Reset() {
	s.mu.Lock()
	s.generation++
	s.userID = 0
	s.tasks = nil
	s.err = ""
	s.mu.Unlock()
	s.logger.Debug("reset")
}

// Load replaces the collection with the server's list. Concurrent loads for
// the same session share one request.
func (s *Store) Load(ctx context.Context) Outcome {
	op, gen, userID, out, ok := s.begin(KindLoad, 0)
	if !ok {
		return out
	}

	v, _, _ := s.loads.Do(fmt.Sprintf("%d", gen), func() (any, error) {
		res := s.backend.List(ctx, userID)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return MsgStale, nil
		}
		if !res.Success {
			s.tasks = nil
			return orDefault(res.Error, MsgFetchFailed), nil
		}
		s.tasks = dedupe(res.Data)
		s.logger.Debug("loaded", "user", userID, "count", len(s.tasks))
		return "", nil
	})

	return s.finish(op, gen, v.(string), nil)
}

// Create validates data and adds the server's task at the end of the
// collection. An invalid payload never reaches the backend, and a reply
// without a task id is a failure.
func (s *Store) Create(ctx context.Context, data models.TaskCreate) Outcome {
	if res := validate.ValidateTaskCreation(data); !res.IsValid {
		return s.reject(res.String())
	}
	if data.Completed == nil {
		data.Completed = models.Ptr(false)
	}

	op, gen, userID, out, ok := s.begin(KindCreate, 0)
	if !ok {
		return out
	}

	res := s.backend.Create(ctx, userID, data)
	if !res.Success {
		return s.finish(op, gen, orDefault(res.Error, MsgCreateFailed), nil)
	}
	task := res.Data
	if task.ID <= 0 {
		return s.finish(op, gen, MsgCreateFailed, nil)
	}
	return s.commit(op, gen, &task, func() {
		if i := s.index(task.ID); i >= 0 {
			s.tasks[i] = task
			return
		}
		s.tasks = append(s.tasks, task)
	})
}

// Update validates data and replaces the task in place with the server's
// copy. A reply for a different id is a failure.
func (s *Store) Update(ctx context.Context, id int64, data models.TaskUpdate) Outcome {
	if res := validate.ValidateTaskID(id); !res.IsValid {
		return s.reject(res.Error)
	}
	if res := validate.ValidateTaskUpdate(data); !res.IsValid {
		return s.reject(res.String())
	}

	op, gen, userID, out, ok := s.begin(KindUpdate, id)
	if !ok {
		return out
	}

	res := s.backend.Update(ctx, userID, id, data)
	if !res.Success {
		return s.finish(op, gen, orDefault(res.Error, MsgUpdateFailed), nil)
	}
	task := res.Data
	if task.ID != id {
		return s.finish(op, gen, MsgUpdateFailed, nil)
	}
	return s.commit(op, gen, &task, func() { s.replace(id, task) })
}

// Toggle flips the completion of a task already in the collection. An
// unknown id fails without contacting the backend.
func (s *Store) Toggle(ctx context.Context, id int64) Outcome {
	current, found := s.Task(id)
	if !found {
		return s.reject(MsgNotFound)
	}

	op, gen, userID, out, ok := s.begin(KindToggle, id)
	if !ok {
		return out
	}

	res := s.backend.SetCompleted(ctx, userID, id, !current.Completed)
	if !res.Success {
		return s.finish(op, gen, orDefault(res.Error, MsgCompletionFailed), nil)
	}
	task := res.Data
	if task.ID != id {
		return s.finish(op, gen, MsgCompletionFailed, nil)
	}
	return s.commit(op, gen, &task, func() { s.replace(id, task) })
}

// Delete removes the task once the backend confirms it
func (s *Store) Delete(ctx context.Context, id int64) Outcome {
	if res := validate.ValidateTaskID(id); !res.IsValid {
		return s.reject(res.Error)
	}
	op, gen, userID, out, ok := s.begin(KindDelete, id)
	if !ok {
		return out
	}

	res := s.backend.Delete(ctx, userID, id)
	if !res.Success {
		return s.finish(op, gen, orDefault(res.Error, MsgDeleteFailed), nil)
	}
	return s.commit(op, gen, nil, func() {
		s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	})
}

// begin registers a pending operation and snapshots the session. It fails
// when no user is active.
func (s *Store) begin(kind Kind, taskID int64) (*Operation, uint64, int64, Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID <= 0 {
		msg := validate.ValidateUserID(s.userID).Error
		s.err = msg
		return nil, 0, 0, Outcome{Error: msg}, false
	}

	op := &Operation{
		ID:      uuid.NewString(),
		Kind:    kind,
		TaskID:  taskID,
		Pending: true,
		Started: time.Now(),
	}
	s.ops[op.ID] = op
	s.err = ""
	return op, s.generation, s.userID, Outcome{}, true
}

// commit applies a successful result unless the session moved on meanwhile.
func (s *Store) commit(op *Operation, gen uint64, task *models.Task, apply func()) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		apply()
	}
	return s.finishLocked(op, gen, "", task)
}

// finish records the operation result. msg is "" on success.
func (s *Store) finish(op *Operation, gen uint64, msg string, task *models.Task) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishLocked(op, gen, msg, task)
}

func (s *Store) finishLocked(op *Operation, gen uint64, msg string, task *models.Task) Outcome {
	current := s.generation == gen
	if !current {
		msg = MsgStale
		task = nil
	}

	op.Pending = false
	op.Success = msg == ""
	op.Error = msg
	op.Finished = time.Now()
	s.remember(op.ID)

	if msg != "" {
		if current {
			s.err = msg
		}
		s.logger.Warn("operation failed", "op", op.Kind, "task", op.TaskID, "err", msg)
	}
	return Outcome{OpID: op.ID, Success: msg == "", Error: msg, Task: task}
}

// reject fails an operation locally, before any request is made.
func (s *Store) reject(msg string) Outcome {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
	return Outcome{Error: msg}
}

// index and replace expect s.mu to be held.
func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func (s *Store) replace(id int64, task models.Task) {
	if i := s.index(id); i >= 0 {
		s.tasks[i] = task
	}
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// dedupe keeps the last occurrence of each id, in first-seen position.
func dedupe(in []models.Task) []models.Task {
	out := make([]models.Task, 0, len(in))
	seen := make(map[int64]int, len(in))
	for _, t := range in {
		if i, ok := seen[t.ID]; ok {
			out[i] = t
			continue
		}
		seen[t.ID] = len(out)
		out = append(out, t)
	}
	return out
}
