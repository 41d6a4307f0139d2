package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/todobreeze/internal/board"
	"github.com/Joseda-hg/todobreeze/internal/model"
	"github.com/Joseda-hg/todobreeze/internal/visibility"
)

const (
	viewHeader   = "header"
	viewFooter   = "footer"
	viewViews    = "views"
	viewProjects = "projects"
	viewTasks    = "tasks"
	viewDetails  = "details"
	viewForm     = "form"
	viewHelp     = "help"
)

var reservedViews = []visibility.View{visibility.Inbox, visibility.Today}

type UI struct {
	board *board.Board
	gui   *gocui.Gui

	visible []model.Task
	history []model.HistoryEntry

	selectedView    int
	selectedProject int
	selectedTask    int
	focus           string

	form       *formState
	formEditor *formEditor
	helpActive bool
	status     string
}

type formState struct {
	kind   formKind
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func newUI(b *board.Board) *UI {
	ui := &UI{board: b, focus: viewTasks}
	ui.formEditor = &formEditor{ui: ui}
	ui.syncSelection()
	return ui
}

// Run loads the board and blocks in the terminal UI until the user quits.
func Run(b *board.Board) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(b)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.loadBoard(); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'r', u.reload},
		{'a', u.addTask},
		{'p', u.addProject},
		{'x', u.toggleDone},
		{'t', u.toggleDueToday},
		{'d', u.deleteSelected},
		{'1', u.statusAll},
		{'2', u.statusActive},
		{'3', u.statusCompleted},
		{'?', u.toggleHelp},
		{gocui.KeyTab, u.switchFocus},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	for _, name := range []string{viewViews, viewProjects, viewTasks, viewDetails} {
		if err := gui.SetKeybinding(name, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'j', gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'k', gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
			return err
		}
	}
	if err := gui.SetKeybinding(viewViews, gocui.KeyEnter, gocui.ModNone, u.selectEntry); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewProjects, gocui.KeyEnter, gocui.ModNone, u.selectEntry); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}

	for _, name := range []string{viewViews, viewProjects, viewTasks} {
		name := name
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: name, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, name, opts)
		}}); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault | gocui.AttrBold
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	dims := computeLayout(maxX, bodyBottom-bodyTop+1)
	leftX1 := dims.leftWidth - 1
	rightX0 := min(leftX1+1, maxX-1)
	rightX1 := maxX - 1

	viewsY1 := bodyTop + dims.viewsHeight - 1
	tasksY1 := bodyTop + dims.tasksHeight - 1

	viewsView, err := gui.SetView(viewViews, 0, bodyTop, leftX1, viewsY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		viewsView.Title = "Views"
	}
	applyViewStyle(viewsView, u.focus == viewViews, true)
	u.renderViews(viewsView)

	projectsView, err := gui.SetView(viewProjects, 0, viewsY1+1, leftX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		projectsView.Title = "Projects"
	}
	applyViewStyle(projectsView, u.focus == viewProjects, true)
	u.renderProjects(projectsView)

	tasksView, err := gui.SetView(viewTasks, rightX0, bodyTop, rightX1, tasksY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	tasksView.Title = fmt.Sprintf("%s (%d)", u.board.ProjectName(u.board.View()), u.board.Count())
	applyViewStyle(tasksView, u.focus == viewTasks, true)
	u.renderTasks(tasksView)

	detailsView, err := gui.SetView(viewDetails, rightX0, tasksY1+1, rightX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailsView.Title = "Details"
		detailsView.Wrap = true
	}
	applyViewStyle(detailsView, u.focus == viewDetails, false)
	u.renderDetails(detailsView)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.form != nil

	return nil
}

type dimensions struct {
	leftWidth   int
	viewsHeight int
	tasksHeight int
}

func computeLayout(width, height int) dimensions {
	safeWidth := max(width-2, 20)
	safeHeight := max(height, 8)

	leftWidth := safeWidth / 4
	if leftWidth < 22 {
		leftWidth = 22
	}
	if leftWidth > safeWidth-18 {
		leftWidth = safeWidth / 2
	}

	viewsHeight := len(reservedViews) + 2
	tasksHeight := int(float64(safeHeight) * 0.6)
	if tasksHeight < 4 {
		tasksHeight = 4
	}
	if safeHeight-tasksHeight < 4 {
		tasksHeight = max(safeHeight-4, 4)
	}

	return dimensions{leftWidth: leftWidth, viewsHeight: viewsHeight, tasksHeight: tasksHeight}
}

func (u *UI) loadBoard() error {
	if err := u.board.Load(context.Background()); err != nil {
		return err
	}
	u.syncSelection()
	return u.refresh()
}

// refresh re-runs the visibility engine and reloads the selected task's
// history.
func (u *UI) refresh() error {
	u.visible = u.board.Visible()
	if u.selectedTask >= len(u.visible) {
		u.selectedTask = max(len(u.visible)-1, 0)
	}
	if projects := u.board.StoredProjects(); u.selectedProject >= len(projects) {
		u.selectedProject = max(len(projects)-1, 0)
	}
	return u.loadHistory()
}

func (u *UI) loadHistory() error {
	selected := u.selectedTaskEntry()
	if selected == nil {
		u.history = nil
		return nil
	}

	history, err := u.board.History(context.Background(), selected.ID)
	if err != nil {
		return err
	}
	u.history = history
	return nil
}

// syncSelection points the pane cursors at the board's current view.
func (u *UI) syncSelection() {
	current := u.board.View()
	for i, view := range reservedViews {
		if view == current {
			u.selectedView = i
			return
		}
	}
	for i, project := range u.board.StoredProjects() {
		if project.ID == current.ProjectID() {
			u.selectedProject = i
			return
		}
	}
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	fmt.Fprintf(view, "todobreeze | %s | %d tasks | filter: %s", u.board.ProjectName(u.board.View()), u.board.Count(), u.board.Status())
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprintln(view, "a add task | p add project | x done | t due today | d delete | enter select view")
	fmt.Fprintln(view, "1 all | 2 active | 3 completed | tab cycle panes | j/k move | r reload | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderViews(view *gocui.View) {
	view.Clear()
	focused := u.focus == viewViews
	for i, entry := range reservedViews {
		prefix := selectionPrefix(i == u.selectedView, focused)
		marker := " "
		if u.board.View() == entry {
			marker = "•"
		}
		fmt.Fprintf(view, "%s %s %s\n", prefix, marker, u.board.ProjectName(entry))
	}
	if focused {
		view.SetCursor(0, u.selectedView)
	}
}

func (u *UI) renderProjects(view *gocui.View) {
	view.Clear()
	projects := u.board.StoredProjects()
	if len(projects) == 0 {
		fmt.Fprint(view, "  press p to add one")
		return
	}

	focused := u.focus == viewProjects
	current := u.board.View()
	for i, project := range projects {
		prefix := selectionPrefix(i == u.selectedProject, focused)
		marker := " "
		if current.ProjectID() == project.ID {
			marker = "•"
		}
		fmt.Fprintf(view, "%s %s %s\n", prefix, marker, project.Name)
	}
	if focused {
		view.SetCursor(0, min(u.selectedProject, len(projects)-1))
	}
}

func (u *UI) renderTasks(view *gocui.View) {
	view.Clear()
	if len(u.visible) == 0 {
		fmt.Fprint(view, "  no tasks")
		return
	}

	focused := u.focus == viewTasks
	projectNames := u.projectNames()
	today := u.board.Today()
	for i, task := range u.visible {
		prefix := selectionPrefix(i == u.selectedTask, focused)
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task, projectNames, today))
	}
	if focused {
		view.SetCursor(0, min(u.selectedTask, len(u.visible)-1))
	}
}

func (u *UI) renderDetails(view *gocui.View) {
	view.Clear()
	selected := u.selectedTaskEntry()
	if selected == nil {
		fmt.Fprint(view, "No task selected")
		return
	}
	fmt.Fprint(view, strings.Join(formatTaskDetails(*selected, u.history, u.projectNames(), u.board.Today()), "\n"))
}

func (u *UI) projectNames() map[string]string {
	names := make(map[string]string)
	for _, project := range u.board.StoredProjects() {
		names[project.ID] = project.Name
	}
	return names
}

func selectionPrefix(selected, focused bool) string {
	if !selected {
		return " "
	}
	if focused {
		return ">"
	}
	return "*"
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)

	switch viewName {
	case viewViews:
		u.selectedView = min(row, len(reservedViews)-1)
		u.focus = viewViews
		return u.selectEntry(gui, nil)
	case viewProjects:
		projects := u.board.StoredProjects()
		if len(projects) == 0 {
			return nil
		}
		u.selectedProject = min(row, len(projects)-1)
		u.focus = viewProjects
		return u.selectEntry(gui, nil)
	case viewTasks:
		if len(u.visible) == 0 {
			return nil
		}
		u.selectedTask = min(row, len(u.visible)-1)
		u.setFocus(gui, viewTasks)
		return u.loadHistory()
	default:
		return nil
	}
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) selectedTaskEntry() *model.Task {
	if u.selectedTask >= 0 && u.selectedTask < len(u.visible) {
		return &u.visible[u.selectedTask]
	}
	return nil
}

func (u *UI) selectedProjectEntry() *model.Project {
	projects := u.board.StoredProjects()
	if u.selectedProject >= 0 && u.selectedProject < len(projects) {
		return &projects[u.selectedProject]
	}
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}

	switch u.focus {
	case viewViews:
		u.focus = viewProjects
	case viewProjects:
		u.focus = viewTasks
	case viewTasks:
		u.focus = viewDetails
	default:
		u.focus = viewViews
	}
	u.setFocus(gui, u.focus)
	return nil
}

func (u *UI) setFocus(gui *gocui.Gui, name string) {
	u.focus = name
	if gui != nil {
		_, _ = gui.SetCurrentView(name)
	}
}

func (u *UI) moveDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewViews:
		if u.selectedView < len(reservedViews)-1 {
			u.selectedView++
		}
	case viewProjects:
		if u.selectedProject < len(u.board.StoredProjects())-1 {
			u.selectedProject++
		}
	case viewTasks:
		if u.selectedTask < len(u.visible)-1 {
			u.selectedTask++
			return u.loadHistory()
		}
	case viewDetails:
		if view != nil {
			view.ScrollDown(1)
		}
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewViews:
		if u.selectedView > 0 {
			u.selectedView--
		}
	case viewProjects:
		if u.selectedProject > 0 {
			u.selectedProject--
		}
	case viewTasks:
		if u.selectedTask > 0 {
			u.selectedTask--
			return u.loadHistory()
		}
	case viewDetails:
		if view != nil {
			view.ScrollUp(1)
		}
	}
	return nil
}

// selectEntry switches the board to the highlighted view or project and
// moves focus to the task list.
func (u *UI) selectEntry(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewViews:
		u.board.Select(reservedViews[u.selectedView])
	case viewProjects:
		project := u.selectedProjectEntry()
		if project == nil {
			return nil
		}
		u.board.Select(visibility.ProjectView(project.ID))
	default:
		return nil
	}
	u.selectedTask = 0
	u.setFocus(gui, viewTasks)
	return u.refresh()
}

func (u *UI) statusAll(gui *gocui.Gui, _ *gocui.View) error {
	return u.setStatusFilter(visibility.All)
}

func (u *UI) statusActive(gui *gocui.Gui, _ *gocui.View) error {
	return u.setStatusFilter(visibility.Active)
}

func (u *UI) statusCompleted(gui *gocui.Gui, _ *gocui.View) error {
	return u.setStatusFilter(visibility.Completed)
}

func (u *UI) setStatusFilter(filter visibility.StatusFilter) error {
	if u.inputActive() {
		return nil
	}
	u.board.SetStatus(filter)
	u.selectedTask = 0
	return u.refresh()
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if err := u.loadBoard(); err != nil {
		u.status = "Error loading tasks: " + err.Error()
		return nil
	}
	u.status = ""
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	if gui != nil {
		_ = gui.DeleteView(viewHelp)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 16
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetViewOnTop(viewHelp)
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) addTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{kind: formTask, fields: buildTaskFormFields()}
	return nil
}

func (u *UI) addProject(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{kind: formProject, fields: buildProjectFormFields()}
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := len(u.form.fields) + 1
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = u.form.kind.title(u.board.ProjectName(u.board.View()))
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetViewOnTop(viewForm)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	switch u.form.kind {
	case formTask:
		title, priority, err := parseTaskForm(u.form.fields)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		if _, _, err := u.board.AddTask(context.Background(), title, priority); err != nil {
			u.status = "Error adding task: " + err.Error()
			return nil
		}
	case formProject:
		project, err := u.board.AddProject(context.Background(), u.form.fields[fieldName].Value)
		if err != nil {
			u.status = "Error adding project: " + err.Error()
			return nil
		}
		u.board.Select(visibility.ProjectView(project.ID))
		u.syncSelection()
	}

	u.status = u.board.Notice()
	u.closeForm(gui)
	return u.refresh()
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.closeForm(gui)
	return nil
}

func (u *UI) closeForm(gui *gocui.Gui) {
	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	current := u.form.fields[u.form.index]
	cursorX := len([]rune(current.Label+": ")) + len([]rune(current.Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if isPriorityField(field.Label) {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cyclePriority(field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cyclePriority(field.Value, -1)
		}
		if ch >= '1' && ch <= '4' {
			field.Value = string(ch)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func (u *UI) toggleDone(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTaskEntry()
	if selected == nil {
		return nil
	}
	if _, err := u.board.ToggleComplete(context.Background(), selected.ID); err != nil {
		u.status = "Error updating task: " + err.Error()
		return nil
	}
	u.status = u.board.Notice()
	return u.refresh()
}

func (u *UI) toggleDueToday(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTaskEntry()
	if selected == nil {
		return nil
	}
	if _, err := u.board.ToggleDueToday(context.Background(), selected.ID); err != nil {
		u.status = "Error updating due date: " + err.Error()
		return nil
	}
	u.status = u.board.Notice()
	return u.refresh()
}

// deleteSelected deletes the highlighted project when the projects pane has
// focus, otherwise the highlighted task.
func (u *UI) deleteSelected(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}

	if u.focus == viewProjects {
		project := u.selectedProjectEntry()
		if project == nil {
			return nil
		}
		if err := u.board.DeleteProject(context.Background(), project.ID); err != nil {
			u.status = "Error deleting project: " + err.Error()
			return nil
		}
		u.syncSelection()
		u.status = u.board.Notice()
		return u.refresh()
	}

	selected := u.selectedTaskEntry()
	if selected == nil {
		return nil
	}
	if err := u.board.DeleteTask(context.Background(), selected.ID); err != nil {
		u.status = "Error deleting task: " + err.Error()
		return nil
	}
	u.status = u.board.Notice()
	return u.refresh()
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  tab cycle panes (views/projects/tasks/details)",
		"  j/k or arrows move selection",
		"  enter show the highlighted view or project",
		"  mouse click to select",
		"",
		"Tasks:",
		"  a add task to the current view | x toggle done",
		"  t toggle due today | d delete task",
		"",
		"Projects:",
		"  p add project | d delete project (Projects pane)",
		"",
		"Filter:",
		"  1 all | 2 active | 3 completed",
		"",
		"Other:",
		"  r reload | ? help | esc close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
		view.TitleColor = gocui.ColorDefault
	}
}
