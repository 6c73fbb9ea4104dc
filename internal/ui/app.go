package ui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/session"
	"github.com/tgienger/todo/internal/taskstate"
	"github.com/tgienger/todo/internal/ui/styles"
	"github.com/tgienger/todo/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewTasks
)

// Notices shown on the login screen
const (
	noticeExpired   = "Your session has ended. Please log in again."
	noticeLoggedOut = "You have been logged out."
)

// Session is the part of session.Service the app needs
type Session interface {
	CurrentUser() *models.User
	Login(ctx context.Context, email, password string) session.LoginResult
	Logout() error
	Watch(ctx context.Context, interval time.Duration) <-chan *models.User
}

// Preferences persists the chosen theme
type Preferences interface {
	SetTheme(key string) error
}

// Options wires the app to its services
type Options struct {
	Session       Session
	Store         *taskstate.Store
	Prefs         Preferences
	CheckInterval time.Duration
	Logger        *log.Logger
}

// sessionChangedMsg carries the user derived from the stored token after it
// changed; nil when signed out.
type sessionChangedMsg struct {
	user *models.User
}

type App struct {
	ctx         context.Context
	opts        Options
	logger      *log.Logger
	currentView View
	user        *models.User
	changes     <-chan *models.User
	login       *views.LoginView
	taskList    *views.TaskListView
	width       int
	height      int
}

// NewApp creates the application. A valid stored token opens the task list
// directly, otherwise the login form is shown.
func NewApp(ctx context.Context, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &App{ctx: ctx, opts: opts, logger: logger}

	if user := opts.Session.CurrentUser(); user != nil {
		a.user = user
		a.currentView = ViewTasks
		a.taskList = views.NewTaskListView(ctx, opts.Store, *user)
	} else {
		a.currentView = ViewLogin
		a.login = views.NewLoginView(ctx, opts.Session, "")
	}
	return a
}

// CurrentView reports the active view
func (a *App) CurrentView() View {
	return a.currentView
}

func (a *App) Init() tea.Cmd {
	var cmd tea.Cmd
	if a.currentView == ViewTasks {
		cmd = a.taskList.Init()
	} else {
		cmd = a.login.Init()
	}
	if a.opts.CheckInterval > 0 {
		a.changes = a.opts.Session.Watch(a.ctx, a.opts.CheckInterval)
	}
	return tea.Batch(cmd, a.waitForSession())
}

// waitForSession blocks until the session watcher reports a change. It
// returns nil once the watcher is closed.
func (a *App) waitForSession() tea.Cmd {
	changes := a.changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		user, ok := <-changes
		if !ok {
			return nil
		}
		return sessionChangedMsg{user: user}
	}
}

// resize replays the last known window size to a freshly created view.
func (a *App) resize() tea.Cmd {
	width, height := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}

func (a *App) openTasks(user models.User) tea.Cmd {
	a.user = &user
	a.currentView = ViewTasks
	a.login = nil
	a.taskList = views.NewTaskListView(a.ctx, a.opts.Store, user)
	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) openLogin(notice string) tea.Cmd {
	a.user = nil
	a.currentView = ViewLogin
	a.taskList = nil
	a.opts.Store.Reset()
	a.login = views.NewLoginView(a.ctx, a.opts.Session, notice)
	return tea.Batch(a.login.Init(), a.resize())
}

// followSession follows identity changes made outside this view, such as
// an expired token or another process signing in or out.
func (a *App) followSession(current *models.User) tea.Cmd {
	switch {
	case a.user == nil && current == nil:
		return nil
	case a.user != nil && current != nil && a.user.ID == current.ID && a.user.Token == current.Token:
		return nil
	case current == nil:
		a.logger.Info("session ended", "user", a.user.ID)
		return a.openLogin(noticeExpired)
	default:
		a.logger.Info("session changed", "user", current.ID)
		a.opts.Store.Reset()
		return a.openTasks(*current)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case sessionChangedMsg:
		return a, tea.Batch(a.followSession(msg.user), a.waitForSession())

	case views.LoggedIn:
		return a, a.openTasks(msg.User)

	case views.LoggedOut:
		if err := a.opts.Session.Logout(); err != nil {
			a.logger.Error("logout", "err", err)
		}
		return a, a.openLogin(noticeLoggedOut)

	case views.ThemeChanged:
		if !styles.Use(msg.Key) {
			a.logger.Warn("unknown theme", "theme", msg.Key)
			return a, nil
		}
		if a.opts.Prefs != nil {
			if err := a.opts.Prefs.SetTheme(msg.Key); err != nil {
				a.logger.Warn("save theme", "err", err)
			}
		}
		if a.login != nil {
			a.login.Restyle()
		}
		if a.taskList != nil {
			a.taskList.Restyle()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewTasks && a.taskList != nil {
		return a.taskList.View()
	}
	return a.login.View()
}
