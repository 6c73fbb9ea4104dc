package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/taskstate"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Success messages shown in the status bar.
const (
	msgCreated = "Task created successfully."
	msgUpdated = "Task updated successfully."
	msgDeleted = "Task deleted successfully."
)

// TaskListView shows the tasks of the signed-in user
type TaskListView struct {
	ctx    context.Context
	store  *taskstate.Store
	user   models.User
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// List state
	cursor    int
	scrollY   int
	filter    Filter
	order     Sort
	search    textinput.Model
	searching bool
	spinner   spinner.Model

	// loadErr replaces the list when the latest load failed
	loadErr   string
	status    string
	statusErr bool

	form *taskForm

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Task

	// Help popup
	showHelpPopup bool
}

// NewTaskListView creates the task list for user
func NewTaskListView(ctx context.Context, store *taskstate.Store, user models.User) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	v := &TaskListView{
		ctx:     ctx,
		store:   store,
		user:    user,
		keys:    keys.DefaultKeyMap(),
		search:  search,
		spinner: sp,
	}
	v.Restyle()
	return v
}

// Restyle rebuilds styles from the current theme
func (v *TaskListView) Restyle() {
	v.styles = styles.NewStyles()
	v.spinner.Style = v.styles.Spinner
}

// Init binds the store to the user and loads the list
func (v *TaskListView) Init() tea.Cmd {
	ctx, store, userID := v.ctx, v.store, v.user.ID
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		return loadDoneMsg{outcome: store.Activate(ctx, userID)}
	})
}

func (v *TaskListView) reload() tea.Cmd {
	ctx, store := v.ctx, v.store
	return func() tea.Msg {
		return loadDoneMsg{outcome: store.Load(ctx)}
	}
}

// mutate runs op on a goroutine and reports its outcome.
func (v *TaskListView) mutate(kind taskstate.Kind, op func(context.Context) taskstate.Outcome) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return mutationDoneMsg{kind: kind, outcome: op(ctx)}
	}
}

func (v *TaskListView) visible() []models.Task {
	return visibleTasks(v.store.Tasks(), v.filter, v.search.Value(), v.order)
}

func (v *TaskListView) selected() (models.Task, bool) {
	tasks := v.visible()
	if v.cursor < 0 || v.cursor >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[v.cursor], true
}

func (v *TaskListView) setStatus(msg string, isErr bool) {
	v.status = msg
	v.statusErr = isErr
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if v.form != nil {
			v.form.desc.SetWidth(v.inputWidth())
		}
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case loadDoneMsg:
		v.loadErr = ""
		if !msg.outcome.Success {
			v.loadErr = msg.outcome.Error
		}
		v.clampCursor()
		return v, nil

	case mutationDoneMsg:
		return v.handleMutation(msg)

	case tea.KeyMsg:
		// Any key closes the help popup
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.form != nil {
			return v.updateEditing(msg)
		}
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) handleMutation(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	out := msg.outcome

	switch msg.kind {
	case taskstate.KindCreate, taskstate.KindUpdate:
		if v.form != nil {
			v.form.submitting = false
			if !out.Success {
				v.form.formErr = out.Error
				return v, nil
			}
			v.form = nil
		}
		if !out.Success {
			v.setStatus(out.Error, true)
			return v, nil
		}
		if msg.kind == taskstate.KindCreate {
			v.setStatus(msgCreated, false)
		} else {
			v.setStatus(msgUpdated, false)
		}

	case taskstate.KindDelete:
		if !out.Success {
			v.setStatus(out.Error, true)
			return v, nil
		}
		v.setStatus(msgDeleted, false)

	default:
		if !out.Success {
			v.setStatus(out.Error, true)
			return v, nil
		}
		v.status = ""
	}

	v.clampCursor()
	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.search.Value() != "" {
			v.search.Reset()
			v.cursor, v.scrollY = 0, 0
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visible())-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.form = newTaskForm(nil, v.inputWidth())
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(); ok {
			v.form = newTaskForm(&task, v.inputWidth())
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		task, ok := v.selected()
		if !ok {
			return v, nil
		}
		v.status = ""
		return v, v.mutate(taskstate.KindToggle, func(ctx context.Context) taskstate.Outcome {
			return v.store.Toggle(ctx, task.ID)
		})

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTarget = task
		}
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		v.status = ""
		return v, v.reload()

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.search.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.ShowCompleted):
		v.filter = v.filter.Next()
		v.cursor, v.scrollY = 0, 0
		return v, nil

	case key.Matches(msg, v.keys.Sort):
		v.order = v.order.Next()
		v.cursor, v.scrollY = 0, 0
		return v, nil

	case key.Matches(msg, v.keys.Theme):
		next := styles.Next().Key
		return v, func() tea.Msg { return ThemeChanged{Key: next} }

	case key.Matches(msg, v.keys.Logout):
		return v, func() tea.Msg { return LoggedOut{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.search.Reset()
		fallthrough
	case key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.search.Blur()
		v.cursor, v.scrollY = 0, 0
		return v, nil
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.cursor, v.scrollY = 0, 0
	return v, cmd
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		v.confirmingDelete = false
		id := v.deleteTarget.ID
		return v, v.mutate(taskstate.KindDelete, func(ctx context.Context) taskstate.Outcome {
			return v.store.Delete(ctx, id)
		})
	case key.Matches(msg, v.keys.Cancel):
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := v.form.update(msg, v.keys)
	switch action {
	case formCancel:
		v.form = nil
		return v, nil
	case formSubmit:
		return v, v.saveTask()
	}
	return v, cmd
}

// saveTask validates the form and sends it. Nothing is sent when the form
// is invalid or an edit changed nothing.
func (v *TaskListView) saveTask() tea.Cmd {
	f := v.form
	if !f.validate() {
		return nil
	}

	if f.isNew() {
		data := f.creation()
		f.submitting = true
		return v.mutate(taskstate.KindCreate, func(ctx context.Context) taskstate.Outcome {
			return v.store.Create(ctx, data)
		})
	}

	changes := f.changes()
	if changes.Empty() {
		v.form = nil
		return nil
	}
	id := f.task.ID
	f.submitting = true
	return v.mutate(taskstate.KindUpdate, func(ctx context.Context) taskstate.Outcome {
		return v.store.Update(ctx, id, changes)
	})
}

func (v *TaskListView) clampCursor() {
	n := len(v.visible())
	if v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	v.ensureVisible()
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin
	return max((v.height-10)/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) inputWidth() int {
	return clamp(styles.ContentWidth(v.width)-10, 20, 50)
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.form != nil {
		return v.renderForm()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles

	title := s.Title.Render("Tasks")
	if v.user.Email != "" {
		title += s.TitleMuted.Render("  " + v.user.Email)
	}

	all := v.store.Tasks()
	done := len(FilterByStatus(all, true))
	summary := fmt.Sprintf("%s • %d done • %s • %s", TaskCountText(len(all)), done, v.filter, v.order)
	if v.store.Loading() {
		summary = v.spinner.View() + " " + summary
	}

	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(styles.ContentWidth(v.width)-8, 10, 30)).Render(v.search.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.TitleMuted.Render(summary),
		searchBox,
	)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if v.loadErr != "" {
		return s.ErrorPanel.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				"Could not load tasks",
				v.loadErr,
				"",
				s.TitleMuted.Render("Press r to retry"),
			),
		)
	}

	tasks := v.visible()
	if len(tasks) == 0 {
		if v.store.Loading() {
			return v.spinner.View() + " Loading tasks..."
		}
		if v.search.Value() != "" || v.filter != FilterAll {
			return s.TitleMuted.Render("No matching tasks.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(tasks[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	marker := "[ ] "
	title := task.Title
	if task.Completed {
		marker = "[x] "
		title = s.Done.Render(title)
	}

	detail := Truncate(task.DescriptionText(), max(width-24, 10))
	if date := FormatDateOnly(task.CreatedAt); date != "" {
		if detail != "" {
			detail += " • "
		}
		detail += date
	}
	if detail == "" {
		detail = s.TitleMuted.Render("no description")
	}

	lineStyle := s.ListItem.Width(width)
	if selected {
		lineStyle = s.ListSelected.Width(width)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Render(marker+title),
		lineStyle.Render("    "+detail),
	) + "\n"
}

func (v *TaskListView) renderStatus() string {
	if v.status == "" {
		return ""
	}
	if v.statusErr {
		return v.styles.StatusError.Render(v.status) + "\n"
	}
	return v.styles.StatusBar.Render(v.status) + "\n"
}

func (v *TaskListView) renderForm() string {
	contentWidth := styles.ContentWidth(v.width)
	form := v.form.view(v.styles, v.spinner.View(), v.inputWidth())
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed for good.", Truncate(v.deleteTarget.Title, 40))),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)

	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	k := v.styles.HelpKey.Render
	return v.styles.Help.Render(
		fmt.Sprintf("%s new • %s edit • %s done • %s del • %s search • %s filter • %s reload • %s help • %s quit",
			k("n"), k("e"), k("space"), k("d"), k("/"), k("c"), k("r"), k("?"), k("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↑/↓") + "    move",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("e/↵") + "    edit task",
		s.HelpKey.Render("space") + "  toggle done",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("c") + "      filter: " + v.filter.Next().String(),
		s.HelpKey.Render("s") + "      sort: " + v.order.Next().String(),
		s.HelpKey.Render("r") + "      reload",
		s.HelpKey.Render("T") + "      switch theme",
		s.HelpKey.Render("L") + "      log out",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
