package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
	"github.com/tgienger/todo/internal/validate"
)

const (
	formFocusTitle = iota
	formFocusDesc
	formFocusCompleted
	formFocusSave
	formFocusCount
)

type formAction int

const (
	formNone formAction = iota
	formCancel
	formSubmit
)

// taskForm edits a new task (task == nil) or an existing one
type taskForm struct {
	task      *models.Task
	title     textinput.Model
	desc      textarea.Model
	completed bool
	focusIdx  int

	errors     map[string]string
	formErr    string
	submitting bool
}

func newTaskForm(task *models.Task, width int) *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = validate.MaxTitleLength + 1

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = validate.MaxDescriptionLength + 1
	desc.SetWidth(width)
	desc.SetHeight(4)
	desc.ShowLineNumbers = false

	f := &taskForm{title: title, desc: desc, errors: map[string]string{}}
	if task != nil {
		copied := *task
		f.task = &copied
		f.title.SetValue(task.Title)
		f.desc.SetValue(task.DescriptionText())
		f.completed = task.Completed
	}
	f.setFocus(formFocusTitle)
	return f
}

func (f *taskForm) isNew() bool {
	return f.task == nil
}

func (f *taskForm) setFocus(idx int) {
	f.focusIdx = (idx + formFocusCount) % formFocusCount
	f.title.Blur()
	f.desc.Blur()
	switch f.focusIdx {
	case formFocusTitle:
		f.title.Focus()
	case formFocusDesc:
		f.desc.Focus()
	}
}

func (f *taskForm) update(msg tea.KeyMsg, km keys.KeyMap) (formAction, tea.Cmd) {
	if f.submitting {
		return formNone, nil
	}

	switch {
	case key.Matches(msg, km.Back):
		return formCancel, nil
	case key.Matches(msg, km.Save):
		return formSubmit, nil
	case key.Matches(msg, km.Tab):
		f.setFocus(f.focusIdx + 1)
		return formNone, nil
	case key.Matches(msg, km.ShiftTab):
		f.setFocus(f.focusIdx - 1)
		return formNone, nil
	case key.Matches(msg, km.Enter):
		switch f.focusIdx {
		case formFocusTitle:
			f.setFocus(formFocusDesc)
			return formNone, nil
		case formFocusCompleted:
			f.completed = !f.completed
			return formNone, nil
		case formFocusSave:
			return formSubmit, nil
		}
		// Enter in the description is a newline
	case msg.String() == " " && f.focusIdx == formFocusCompleted:
		f.completed = !f.completed
		return formNone, nil
	}

	var cmd tea.Cmd
	switch f.focusIdx {
	case formFocusTitle:
		f.title, cmd = f.title.Update(msg)
		delete(f.errors, "title")
	case formFocusDesc:
		f.desc, cmd = f.desc.Update(msg)
		delete(f.errors, "description")
	}
	f.formErr = ""
	return formNone, cmd
}

func (f *taskForm) description() *string {
	desc := strings.TrimSpace(f.desc.Value())
	if desc == "" {
		return nil
	}
	return &desc
}

// creation builds the payload of a new task
func (f *taskForm) creation() models.TaskCreate {
	return models.TaskCreate{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: f.description(),
		Completed:   models.Ptr(f.completed),
	}
}

// changes builds a partial update holding only the edited fields. A cleared
// description is sent as an empty string.
func (f *taskForm) changes() models.TaskUpdate {
	var u models.TaskUpdate
	if f.task == nil {
		return u
	}
	if title := strings.TrimSpace(f.title.Value()); title != f.task.Title {
		u.Title = &title
	}
	desc := strings.TrimSpace(f.desc.Value())
	if desc != f.task.DescriptionText() {
		u.Description = &desc
	}
	if f.completed != f.task.Completed {
		u.Completed = models.Ptr(f.completed)
	}
	return u
}

// validate checks the form and assigns each violation to its field.
func (f *taskForm) validate() bool {
	var res validate.Result
	if f.isNew() {
		res = validate.ValidateTaskCreation(f.creation())
	} else {
		res = validate.ValidateTaskUpdate(f.changes())
	}
	f.errors = fieldErrors(res.Errors)
	f.formErr = f.errors["form"]
	delete(f.errors, "form")
	return res.IsValid
}

// fieldErrors files each message under the field it names.
func fieldErrors(errs []string) map[string]string {
	out := map[string]string{}
	for _, e := range errs {
		switch {
		case strings.Contains(e, "Title"):
			out["title"] = e
		case strings.Contains(e, "Description"):
			out["description"] = e
		case strings.Contains(e, "Completion"):
			out["completed"] = e
		default:
			out["form"] = e
		}
	}
	return out
}

func (f *taskForm) view(s *styles.Styles, spin string, width int) string {
	heading := "New Task"
	if !f.isNew() {
		heading = "Edit Task"
	}

	titleStyle, descStyle, checkStyle, btnStyle := s.Input, s.Input, s.ListItem, s.Button
	switch f.focusIdx {
	case formFocusTitle:
		titleStyle = s.InputFocused
	case formFocusDesc:
		descStyle = s.InputFocused
	case formFocusCompleted:
		checkStyle = s.ListSelected
	case formFocusSave:
		btnStyle = s.ButtonFocused
	}

	checkbox := "[ ] Completed"
	if f.completed {
		checkbox = "[x] Completed"
	}

	button := btnStyle.Render(" Save ")
	if f.submitting {
		button = spin + " Saving..."
	}

	rows := []string{
		s.Title.Render(heading),
		"",
		"Title:",
		titleStyle.Width(width).Render(f.title.View()),
		fieldError(s, f.errors["title"]),
		"Description:",
		descStyle.Render(f.desc.View()),
		fieldError(s, f.errors["description"]),
		checkStyle.Render(checkbox),
		fieldError(s, f.errors["completed"]),
		button,
	}
	if f.formErr != "" {
		rows = append(rows, "", s.ErrorPanel.Render(f.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Space: toggle • Ctrl+S: save • Esc: cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
