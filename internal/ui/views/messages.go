package views

import (
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/taskstate"
)

// LoggedIn is sent once a login succeeds
type LoggedIn struct {
	User models.User
}

// LoggedOut asks the app to end the session
type LoggedOut struct{}

// ThemeChanged asks the app to switch and persist the theme
type ThemeChanged struct {
	Key string
}

type loginResultMsg struct {
	success bool
	user    *models.User
	err     string
}

type loadDoneMsg struct {
	outcome taskstate.Outcome
}

type mutationDoneMsg struct {
	kind    taskstate.Kind
	outcome taskstate.Outcome
}
