package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/skeincare/internal/app"
	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/emoji"
	"github.com/yildizm/skeincare/internal/formatter"
	"github.com/yildizm/skeincare/internal/logger"
	"github.com/yildizm/skeincare/internal/updater"
	"github.com/yildizm/skeincare/internal/view"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeCount
	modeConfirmDelete
	modeHelp
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Options configures the terminal UI
type Options struct {
	// Session seeds the underlying app; Renderer and Observer are set by the UI
	Session app.Options

	Theme       string
	SwatchWidth int

	// Watch reloads brands edited outside the session
	Watch bool

	// Checker runs a background release check when set
	Checker      *updater.Checker
	Version      string
	CheckTimeout time.Duration

	Logger *logger.Logger
}

// Model is the bubbletea model of the skein list
type Model struct {
	app    *app.App
	panels *PanelSet
	keys   keyMap
	help   help.Model
	styles *Styles
	logger *logger.Logger

	watcher      *catalogWatcher
	checker      *updater.Checker
	version      string
	checkTimeout time.Duration
	update       *updater.Result

	mode     mode
	cursor   int
	offset   int
	selected catalog.Key
	width    int
	height   int

	search textinput.Model
	count  textinput.Model

	status     string
	statusKind statusKind
	statusID   int

	swatchWidth int
	quitting    bool
}

// NewModel opens a session and builds the list model around it
func NewModel(opts Options) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	theme, ok := ThemeByName(opts.Theme)
	if !ok && opts.Theme != "" {
		log.Warn("unknown theme %q, using default", opts.Theme)
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = 10 * time.Second
	}
	if opts.SwatchWidth <= 0 {
		opts.SwatchWidth = 6
	}

	search := textinput.New()
	search.Placeholder = "SKU or name"
	search.Prompt = emoji.GetEmoji("search") + " "
	search.CharLimit = 64
	search.Width = 30

	count := textinput.New()
	count.Placeholder = "0-999"
	count.Prompt = emoji.GetEmoji("count") + " "
	count.CharLimit = 6
	count.Width = 8

	m := &Model{
		panels:       NewPanelSet(),
		keys:         newKeyMap(),
		help:         help.New(),
		styles:       NewStyles(theme),
		logger:       log.WithComponent("ui"),
		checker:      opts.Checker,
		version:      opts.Version,
		checkTimeout: opts.CheckTimeout,
		search:       search,
		count:        count,
		swatchWidth:  opts.SwatchWidth,
		width:        80,
		height:       24,
	}

	session := opts.Session
	session.Renderer = m.panels
	session.Logger = log
	session.Observer = app.Observer{
		OnSkeinDeleted: func(key catalog.Key) {
			m.setStatus(statusSuccess, fmt.Sprintf("%s Deleted %s", emoji.GetEmoji("delete"), key))
		},
		OnError: func(err error) {
			m.setStatus(statusError, fmt.Sprintf("%s %v", emoji.GetEmoji("error"), err))
		},
	}

	a, err := app.New(session)
	if err != nil {
		return nil, err
	}
	m.app = a
	m.search.SetValue(a.State().Search)

	if report := a.LoadReport(); report != nil && len(report.Problems) > 0 {
		m.setStatus(statusWarning, fmt.Sprintf("%s %d catalog problem(s) skipped, see log", emoji.GetEmoji("warning"), len(report.Problems)))
	}

	if opts.Watch {
		w, err := newCatalogWatcher(session.Paths.CatalogsDir, m.logger)
		if err != nil {
			m.logger.WarnWithFields("catalog watcher disabled", []logger.Field{logger.Error(err)})
		} else {
			m.watcher = w
		}
	}

	m.syncCursor()
	return m, nil
}

// App returns the session behind the model
func (m *Model) App() *app.App { return m.app }

// Init starts the watcher and the release check
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.next())
	}
	if m.checker != nil {
		cmds = append(cmds, checkForUpdate(m.checker, m.version, m.app.SkipVersion(), m.checkTimeout))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and key presses
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case catalogChangedMsg:
		return m.handleCatalogChanged(msg)
	case watchErrorMsg:
		m.logger.WarnWithFields("catalog watcher error", []logger.Field{logger.Error(msg.err)})
		if m.watcher == nil {
			return m, nil
		}
		return m, m.watcher.next()
	case updateCheckedMsg:
		return m.handleUpdateChecked(msg)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

// Close stops the watcher and flushes the session
func (m *Model) Close() error {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	return m.app.Close()
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.app.SetWindowSize(msg.Width, msg.Height)
	m.scrollToCursor()
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeCount:
		return m.handleCountKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeHelp:
		if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
			return m.handleQuit()
		}
		m.mode = modeBrowse
		m.help.ShowAll = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.handleQuit()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.panels.Visible()))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.panels.Visible()))
	case key.Matches(msg, m.keys.Increment):
		return m.adjust(1)
	case key.Matches(msg, m.keys.Decrement):
		return m.adjust(-1)
	case key.Matches(msg, m.keys.SetCount):
		return m.startCountEntry()
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ShowAll):
		return m.toggleShowAll()
	case key.Matches(msg, m.keys.Sort):
		return m.cycleSort()
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.current(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Reload):
		return m.reloadCurrentBrand()
	case key.Matches(msg, m.keys.SkipUpd):
		return m.skipUpdate()
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		m.help.ShowAll = true
	}
	return m, nil
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.mode = modeBrowse
		return m, m.applySearch()
	case tea.KeyCtrlC:
		return m.handleQuit()
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		return m, tea.Batch(cmd, m.applySearch())
	}
	return m, cmd
}

func (m *Model) applySearch() tea.Cmd {
	if err := m.app.SetSearch(m.search.Value()); err != nil {
		return m.statusCmd()
	}
	m.syncCursor()
	return nil
}

func (m *Model) startCountEntry() (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}
	m.count.SetValue(strconv.Itoa(p.Count()))
	m.count.CursorEnd()
	m.mode = modeCount
	return m, m.count.Focus()
}

func (m *Model) handleCountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.count.Blur()
		m.mode = modeBrowse
		p, ok := m.current()
		if !ok {
			return m, nil
		}
		k := p.Key()
		stored, err := m.app.SetCountValue(k.Brand, k.SKU, m.count.Value())
		if err != nil {
			m.setStatus(statusError, fmt.Sprintf("%s %v", emoji.GetEmoji("error"), err))
			return m, m.statusCmd()
		}
		m.syncCursor()
		m.setStatus(statusSuccess, fmt.Sprintf("%s %s set to %d", emoji.GetEmoji("success"), k, stored))
		return m, m.statusCmd()
	case tea.KeyEsc:
		m.count.Blur()
		m.mode = modeBrowse
		return m, nil
	case tea.KeyCtrlC:
		return m.handleQuit()
	}

	var cmd tea.Cmd
	m.count, cmd = m.count.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if !key.Matches(msg, m.keys.Confirm) {
		return m, nil
	}
	p, ok := m.current()
	if !ok {
		return m, nil
	}
	k := p.Key()
	if _, err := m.app.DeleteSkein(k.Brand, k.SKU); err != nil {
		return m, m.statusCmd()
	}
	m.syncCursor()
	return m, m.statusCmd()
}

func (m *Model) adjust(delta int) (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}
	k := p.Key()
	if _, err := m.app.AdjustCount(k.Brand, k.SKU, delta); err != nil {
		return m, m.statusCmd()
	}
	m.syncCursor()
	return m, nil
}

func (m *Model) toggleShowAll() (tea.Model, tea.Cmd) {
	showAll := !m.app.State().ShowAll
	if err := m.app.SetShowAll(showAll); err != nil {
		return m, m.statusCmd()
	}
	m.syncCursor()
	if showAll {
		m.setStatus(statusInfo, "Showing every catalog skein")
	} else {
		m.setStatus(statusInfo, "Showing owned skeins only")
	}
	return m, m.statusCmd()
}

func (m *Model) cycleSort() (tea.Model, tea.Cmd) {
	next := sortOrder[0]
	for i, method := range sortOrder {
		if method == m.app.State().Sort {
			next = sortOrder[(i+1)%len(sortOrder)]
			break
		}
	}
	if err := m.app.SetSortMethod(next); err != nil {
		return m, m.statusCmd()
	}
	m.syncCursor()
	m.setStatus(statusInfo, fmt.Sprintf("%s Sorted by %s", emoji.GetEmoji("sort"), next))
	return m, m.statusCmd()
}

var sortOrder = []view.SortMethod{view.SortBrand, view.SortSKU, view.SortName, view.SortCount}

func (m *Model) reloadCurrentBrand() (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}
	return m.reloadBrand(p.Key().Brand)
}

func (m *Model) reloadBrand(brand string) (tea.Model, tea.Cmd) {
	if err := m.app.ReloadBrand(brand); err != nil {
		return m, m.statusCmd()
	}
	m.syncCursor()
	m.setStatus(statusInfo, fmt.Sprintf("%s Reloaded %s", emoji.GetEmoji("reload"), brand))
	return m, m.statusCmd()
}

func (m *Model) handleCatalogChanged(msg catalogChangedMsg) (tea.Model, tea.Cmd) {
	_, cmd := m.reloadBrand(msg.brand)
	if m.watcher == nil {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.watcher.next())
}

func (m *Model) handleUpdateChecked(msg updateCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.InfoWithFields("update check failed", []logger.Field{logger.Error(msg.err)})
		return m, nil
	}
	if msg.result == nil || !msg.result.Available {
		return m, nil
	}
	m.update = msg.result
	m.keys.SkipUpd.SetEnabled(true)
	m.setStatus(statusWarning, fmt.Sprintf("%s Update available: %s (u to skip)", emoji.GetEmoji("update"), msg.result.Latest))
	return m, nil
}

func (m *Model) skipUpdate() (tea.Model, tea.Cmd) {
	if m.update == nil {
		return m, nil
	}
	m.app.SetSkipVersion(m.update.Latest)
	m.setStatus(statusInfo, fmt.Sprintf("Skipping %s", m.update.Latest))
	m.update = nil
	m.keys.SkipUpd.SetEnabled(false)
	return m, m.statusCmd()
}

// current returns the panel under the cursor
func (m *Model) current() (*Panel, bool) {
	visible := m.panels.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil, false
	}
	return visible[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	visible := m.panels.Visible()
	if len(visible) == 0 {
		return
	}
	m.cursor = max(0, min(len(visible)-1, m.cursor+delta))
	m.selected = visible[m.cursor].Key()
	m.scrollToCursor()
}

// syncCursor keeps the cursor on the selected skein after the list changed
func (m *Model) syncCursor() {
	visible := m.panels.Visible()
	if len(visible) == 0 {
		m.cursor, m.offset = 0, 0
		m.selected = catalog.Key{}
		return
	}
	for i, p := range visible {
		if p.Key() == m.selected {
			m.cursor = i
			m.scrollToCursor()
			return
		}
	}
	m.cursor = max(0, min(len(visible)-1, m.cursor))
	m.selected = visible[m.cursor].Key()
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listHeight is the number of rows left after the header and footer
func (m *Model) listHeight() int {
	return max(1, m.height-5)
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusID++
	m.status = text
	m.statusKind = kind
}

func (m *Model) statusCmd() tea.Cmd {
	if m.status == "" {
		return nil
	}
	return clearStatusAfter(m.statusID)
}

// View renders the list
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeHelp {
		return m.renderHelp()
	}

	sections := []string{
		m.renderHeader(),
		m.renderFilterLine(),
		m.renderList(),
		m.renderStatusLine(),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render(emoji.GetEmoji("skein") + " skeincare")
	counter := m.styles.Counter.Render(m.app.Projection().Counter())

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(counter)
	if gap < 1 {
		return title + " " + counter
	}
	return title + strings.Repeat(" ", gap) + counter
}

func (m *Model) renderFilterLine() string {
	state := m.app.State()
	if m.mode == modeSearch {
		return m.search.View()
	}

	parts := []string{"sort: " + state.Sort.String()}
	if state.ShowAll {
		parts = append(parts, "showing: all")
	} else {
		parts = append(parts, "showing: owned")
	}
	if state.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", state.Search))
	}
	return m.styles.Muted.Render(strings.Join(parts, " • "))
}

func (m *Model) renderList() string {
	visible := m.panels.Visible()
	height := m.listHeight()
	if len(visible) == 0 {
		empty := "No skeins to show"
		if !m.app.State().ShowAll {
			empty += " (press a to show the whole catalog)"
		}
		return m.styles.Muted.Render(empty) + strings.Repeat("\n", height-1)
	}

	end := min(len(visible), m.offset+height)
	rows := make([]string, 0, height)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(visible[i], i == m.cursor))
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderRow(p *Panel, selected bool) string {
	s := p.Skein()
	swatch := labelSwatch(s, s.SKU, m.swatchWidth)

	nameWidth := max(8, m.width-m.swatchWidth-24)
	text := fmt.Sprintf("%-8s %s", truncate(s.Brand, 8), truncate(s.Name, nameWidth))

	countStyle := m.styles.Muted
	if p.Count() > 0 {
		countStyle = m.styles.Owned
	}
	count := countStyle.Render(fmt.Sprintf("%5d", p.Count()))

	if selected {
		return "▶ " + swatch + " " + count + " " + m.styles.Selected.Render(text)
	}
	return "  " + swatch + " " + count + " " + m.styles.Row.Render(text)
}

func (m *Model) renderStatusLine() string {
	switch m.mode {
	case modeCount:
		if p, ok := m.current(); ok {
			return m.styles.Prompt.Render(fmt.Sprintf("Count for %s: ", p.Key())) + m.count.View()
		}
	case modeConfirmDelete:
		if p, ok := m.current(); ok {
			return m.styles.Warning.Render(fmt.Sprintf("%s Delete %s from the catalog? (y/N)", emoji.GetEmoji("delete"), p.Key()))
		}
	}

	switch m.statusKind {
	case statusSuccess:
		return m.styles.Success.Render(m.status)
	case statusWarning:
		return m.styles.Warning.Render(m.status)
	case statusError:
		return m.styles.Error.Render(m.status)
	default:
		return m.styles.Muted.Render(m.status)
	}
}

func (m *Model) renderHelp() string {
	title := m.styles.Title.Render(emoji.GetEmoji("help") + " Keys")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.help.View(m.keys), "", m.styles.Muted.Render("press any key to return"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Box.Render(content))
}

// labelSwatch draws text across the color bands of a skein. Every band
// keeps its own background; the text color follows the average lightness.
func labelSwatch(s *catalog.Skein, text string, width int) string {
	bands := s.Colors
	if len(bands) == 0 {
		bands = []catalog.Color{catalog.White}
	}
	width = max(width, len(bands))

	cells := []rune(truncate(text, width))
	for len(cells) < width {
		cells = append(cells, ' ')
	}

	fg := formatter.LabelColor(s)

	var b strings.Builder
	base, extra := width/len(bands), width%len(bands)
	pos := 0
	for i, c := range bands {
		n := base
		if i < extra {
			n++
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Foreground(fg)
		b.WriteString(style.Render(string(cells[pos : pos+n])))
		pos += n
	}
	return b.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// Run starts the terminal UI and flushes the session when it exits
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := program.Run()
	return errors.Join(runErr, m.Close())
}
