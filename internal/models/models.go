package models

import "time"

// Task represents a single to-do item owned by one user
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"` // nil when the server has none
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DescriptionText returns the description or an empty string
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// User is the locally known identity derived from the stored token
type User struct {
	ID         int64
	Email      string
	Token      string
	IsLoggedIn bool
}

// TaskCreate is the body of a task creation request
type TaskCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TaskUpdate is a partial update; nil fields are left untouched by the server
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Empty reports whether the update carries no fields
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

// CompletionUpdate is the body of the dedicated completion endpoint
type CompletionUpdate struct {
	Completed bool `json:"completed"`
}

// Ptr returns a pointer to v, handy for optional request fields
func Ptr[T any](v T) *T {
	return &v
}
