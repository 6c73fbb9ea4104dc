package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/session"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
	"github.com/tgienger/todo/internal/validate"
)

// Authenticator signs a user in
type Authenticator interface {
	Login(ctx context.Context, email, password string) session.LoginResult
}

const (
	loginFocusEmail = iota
	loginFocusPassword
	loginFocusSubmit
	loginFocusCount
)

// LoginView collects credentials
type LoginView struct {
	ctx    context.Context
	auth   Authenticator
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	email    textinput.Model
	password textinput.Model
	focusIdx int
	spinner  spinner.Model

	emailErr    string
	passwordErr string
	formErr     string
	notice      string
	submitting  bool
}

// NewLoginView creates the login screen. notice is shown above the form,
// for example after a session expired.
func NewLoginView(ctx context.Context, auth Authenticator, notice string) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	v := &LoginView{
		ctx:      ctx,
		auth:     auth,
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
		spinner:  sp,
		notice:   notice,
	}
	v.Restyle()
	return v
}

// Restyle rebuilds styles from the current theme
func (v *LoginView) Restyle() {
	v.styles = styles.NewStyles()
	v.spinner.Style = v.styles.Spinner
}

// Init starts the cursor blink
func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		if !v.submitting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case loginResultMsg:
		v.submitting = false
		if !msg.success || msg.user == nil {
			v.formErr = msg.err
			return v, nil
		}
		user := *msg.user
		return v, func() tea.Msg { return LoggedIn{User: user} }

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return v, tea.Quit
		}
		if v.submitting {
			return v, nil
		}
		return v.updateForm(msg)
	}

	return v, nil
}

func (v *LoginView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Tab), msg.String() == "down":
		v.setFocus(v.focusIdx + 1)
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab), msg.String() == "up":
		v.setFocus(v.focusIdx - 1)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == loginFocusEmail {
			v.setFocus(loginFocusPassword)
			return v, nil
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case loginFocusEmail:
		v.email, cmd = v.email.Update(msg)
		v.emailErr = ""
	case loginFocusPassword:
		v.password, cmd = v.password.Update(msg)
		v.passwordErr = ""
	}
	v.formErr = ""
	return v, cmd
}

func (v *LoginView) setFocus(idx int) {
	v.focusIdx = (idx + loginFocusCount) % loginFocusCount
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case loginFocusEmail:
		v.email.Focus()
	case loginFocusPassword:
		v.password.Focus()
	}
}

// submit validates locally and, when the credentials pass, signs in.
func (v *LoginView) submit() tea.Cmd {
	email := v.email.Value()
	password := v.password.Value()

	if res := validate.ValidateLoginCredentials(email, password); !res.IsValid {
		v.emailErr = validate.ValidateEmail(email).Error
		v.passwordErr = validate.ValidatePassword(password).Error
		return nil
	}

	v.submitting = true
	v.formErr = ""
	v.notice = ""
	ctx, auth := v.ctx, v.auth
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		res := auth.Login(ctx, email, password)
		return loginResultMsg{success: res.Success, user: res.User, err: res.Error}
	})
}

// View renders the form
func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 40)

	emailStyle, passwordStyle, btnStyle := s.Input, s.Input, s.Button
	switch v.focusIdx {
	case loginFocusEmail:
		emailStyle = s.InputFocused
	case loginFocusPassword:
		passwordStyle = s.InputFocused
	case loginFocusSubmit:
		btnStyle = s.ButtonFocused
	}

	rows := []string{s.Title.Render("Sign in"), ""}
	if v.notice != "" {
		rows = append(rows, s.TitleMuted.Render(v.notice), "")
	}
	rows = append(rows,
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		fieldError(s, v.emailErr),
		"Password:",
		passwordStyle.Width(inputWidth).Render(v.password.View()),
		fieldError(s, v.passwordErr),
	)

	button := btnStyle.Render(" Log in ")
	if v.submitting {
		button = v.spinner.View() + " Signing in..."
	}
	rows = append(rows, button)
	if v.formErr != "" {
		rows = append(rows, "", s.ErrorPanel.Render(v.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ↵: log in • Esc: quit"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func fieldError(s *styles.Styles, msg string) string {
	if msg == "" {
		return ""
	}
	return s.FieldError.Render(msg)
}
