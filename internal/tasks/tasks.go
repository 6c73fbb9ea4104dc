// Package tasks maps each task operation onto its backend endpoint. It holds
// no state and applies no rules beyond the payload contracts.
package tasks

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/tgienger/todo/internal/api"
	"github.com/tgienger/todo/internal/models"
)

//go:embed task.schema.json
var taskSchemaSource string

var (
	taskSchema     = api.MustSchema("task.schema.json", taskSchemaSource)
	taskListSchema = api.MustSchema("task_list.schema.json", `{"type": "array", "items": `+taskSchemaSource+`}`)
)

// Service is the task resource client
type Service struct {
	client *api.Client
}

// New creates a task service on top of client
func New(client *api.Client) *Service {
	return &Service{client: client}
}

func collection(userID int64) string {
	return fmt.Sprintf("/api/%d/tasks", userID)
}

func member(userID, taskID int64) string {
	return fmt.Sprintf("/api/%d/tasks/%d", userID, taskID)
}

// List returns every task of the user
func (s *Service) List(ctx context.Context, userID int64) api.Result[[]models.Task] {
	return api.Get[[]models.Task](ctx, s.client, collection(userID), api.WithSchema(taskListSchema))
}

// Get returns one task
func (s *Service) Get(ctx context.Context, userID, taskID int64) api.Result[models.Task] {
	return api.Get[models.Task](ctx, s.client, member(userID, taskID), api.WithSchema(taskSchema))
}

// Create adds a task
func (s *Service) Create(ctx context.Context, userID int64, data models.TaskCreate) api.Result[models.Task] {
	return api.Post[models.Task](ctx, s.client, collection(userID), data, api.WithSchema(taskSchema))
}

// Update sends a partial update
func (s *Service) Update(ctx context.Context, userID, taskID int64, data models.TaskUpdate) api.Result[models.Task] {
	return api.Put[models.Task](ctx, s.client, member(userID, taskID), data, api.WithSchema(taskSchema))
}

// SetCompleted sets the completion flag through the dedicated endpoint
func (s *Service) SetCompleted(ctx context.Context, userID, taskID int64, completed bool) api.Result[models.Task] {
	body := models.CompletionUpdate{Completed: completed}
	return api.Patch[models.Task](ctx, s.client, member(userID, taskID)+"/complete", body, api.WithSchema(taskSchema))
}

// Delete removes a task
func (s *Service) Delete(ctx context.Context, userID, taskID int64) api.Result[api.Empty] {
	return api.Delete[api.Empty](ctx, s.client, member(userID, taskID))
}
