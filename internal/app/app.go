// Package app is the terminal host: a small browser whose navigations feed
// the dispatch pipeline and whose view shows what the handlers produced.
package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/pagehook/internal/bridge"
	"github.com/vidyasagar/pagehook/internal/browser"
	"github.com/vidyasagar/pagehook/internal/dispatch"
	"github.com/vidyasagar/pagehook/internal/handlers"
	"github.com/vidyasagar/pagehook/internal/pagectx"
	"github.com/vidyasagar/pagehook/internal/theme"
	"github.com/vidyasagar/pagehook/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert      // URL bar focused
)

const (
	urlBarHeight    = 3 // border adds height
	statusBarHeight = 1
)

// Model is the top-level bubbletea model.
type Model struct {
	rt *Runtime

	urlBar    ui.URLBar
	statusBar ui.StatusBar
	viewport  ui.PageViewport
	eventLog  ui.EventLog

	keys     KeyMap
	mode     Mode
	width    int
	height   int
	ready    bool
	startURL string

	note       *handlers.Note
	cancelLoad context.CancelFunc
}

type pageLoadedMsg struct {
	url    string
	page   *browser.Page
	reload bool
	err    error
}

type eventMsg dispatch.Event

type noteMsg handlers.Note

type replyMsg bridge.Reply

// New creates the Model over a started Runtime.
func New(rt *Runtime, startURL string) Model {
	return Model{
		rt:        rt,
		urlBar:    ui.NewURLBar(),
		statusBar: ui.NewStatusBar(),
		viewport:  ui.NewPageViewport(),
		eventLog:  ui.NewEventLog(),
		keys:      DefaultKeyMap(),
		startURL:  startURL,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitEvent(m.rt.Events()),
		waitNote(m.rt.Notes()),
		waitReply(m.rt.Replies()),
	}
	if m.startURL != "" {
		cmds = append(cmds, m.load(m.startURL, false))
	}
	return tea.Batch(cmds...)
}

func waitEvent(ch <-chan dispatch.Event) tea.Cmd {
	return func() tea.Msg { return eventMsg(<-ch) }
}

func waitNote(ch <-chan handlers.Note) tea.Cmd {
	return func() tea.Msg { return noteMsg(<-ch) }
}

func waitReply(ch <-chan bridge.Reply) tea.Cmd {
	return func() tea.Msg { return replyMsg(<-ch) }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refresh()
		return m, nil

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case eventMsg:
		m.eventLog.Add(dispatch.Event(msg))
		m.syncStatus()
		return m, waitEvent(m.rt.Events())

	case noteMsg:
		n := handlers.Note(msg)
		m.note = &n
		m.refresh()
		return m, waitNote(m.rt.Notes())

	case replyMsg:
		if msg.Status == bridge.StatusError {
			m.statusBar.SetError(fmt.Errorf("bridge: %s", msg.Message))
		}
		return m, waitReply(m.rt.Replies())

	case tea.KeyMsg:
		if m.mode == ModeInsert {
			return m.handleInsertMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	cmd := m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusBar.ClearMessage()
	session := m.rt.Session

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		return m.focusURLBar(ui.InputOpen, "")
	case key.Matches(msg, m.keys.Push):
		return m.focusURLBar(ui.InputPush, session.Current())
	case key.Matches(msg, m.keys.Replace):
		return m.focusURLBar(ui.InputReplace, session.Current())

	case key.Matches(msg, m.keys.Back):
		if u, ok := session.Back(); ok {
			m.traversed(u)
		} else {
			m.statusBar.SetMessage("No previous entry")
		}
	case key.Matches(msg, m.keys.Forward):
		if u, ok := session.Forward(); ok {
			m.traversed(u)
		} else {
			m.statusBar.SetMessage("No next entry")
		}
	case key.Matches(msg, m.keys.Reload):
		if cur := session.Current(); cur != "" {
			cmd := m.load(cur, true)
			return m, cmd
		}

	case key.Matches(msg, m.keys.ToggleLog):
		m.eventLog.Toggle()
		m.layout()
		m.refresh()
	case key.Matches(msg, m.keys.ScrollDown):
		if m.eventLog.IsVisible() {
			m.eventLog.CursorDown()
		} else {
			m.viewport.LineDown(1)
		}
	case key.Matches(msg, m.keys.ScrollUp):
		if m.eventLog.IsVisible() {
			m.eventLog.CursorUp()
		} else {
			m.viewport.LineUp(1)
		}
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
	}

	m.syncStatus()
	return m, nil
}

func (m Model) focusURLBar(mode ui.InputMode, value string) (tea.Model, tea.Cmd) {
	m.mode = ModeInsert
	m.statusBar.SetMode("INSERT")
	m.urlBar.SetValue(value)
	cmd := m.urlBar.Focus(mode)
	return m, cmd
}

func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blurURLBar()
		m.urlBar.SetValue(m.rt.Session.Current())
		return m, nil

	case "enter":
		input := strings.TrimSpace(m.urlBar.Value())
		mode := m.urlBar.Mode()
		m.blurURLBar()
		if input == "" {
			return m, nil
		}
		return m.submit(mode, input)

	case "ctrl+c":
		return m, tea.Quit
	}

	cmd := m.urlBar.Update(msg)
	return m, cmd
}

func (m *Model) blurURLBar() {
	m.urlBar.Blur()
	m.mode = ModeNormal
	m.statusBar.SetMode("NORMAL")
}

// submit acts on URL bar input. Push and replace are in-page navigations:
// no fetch, the detector picks them up.
func (m Model) submit(mode ui.InputMode, input string) (tea.Model, tea.Cmd) {
	if mode == ui.InputOpen {
		cmd := m.load(input, false)
		return m, cmd
	}

	target, err := resolveAgainst(m.rt.Session.Current(), input)
	if err != nil {
		m.statusBar.SetError(err)
		return m, nil
	}

	if mode == ui.InputPush {
		m.rt.Session.PushState(target)
	} else {
		m.rt.Session.ReplaceState(target)
	}
	m.urlBar.SetValue(target)
	m.refresh()
	m.syncStatus()
	return m, nil
}

// resolveAgainst resolves input relative to the current URL, so "/next" or
// "#/route" work like history.pushState arguments.
func resolveAgainst(current, input string) (string, error) {
	ref, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", input, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if current == "" {
		return "", fmt.Errorf("relative URL %q with no page loaded", input)
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid current URL %q: %w", current, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// traversed shows a cached document for a back/forward target when one
// exists; entries made by push/replace keep the current document.
func (m *Model) traversed(u string) {
	if p, ok := m.rt.Loader.Cached(u); ok {
		m.rt.Host.SetPage(p)
	}
	m.urlBar.SetValue(u)
	m.refresh()
}

// load fetches a document. Completion is announced through the bridge.
func (m *Model) load(rawURL string, reload bool) tea.Cmd {
	if m.cancelLoad != nil {
		m.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelLoad = cancel

	m.rt.Host.Loading()
	m.statusBar.SetLoading(true)
	m.urlBar.SetValue(browser.NormalizeURL(rawURL))

	loader := m.rt.Loader
	return func() tea.Msg {
		page, err := loader.Load(ctx, rawURL, reload)
		return pageLoadedMsg{url: rawURL, page: page, reload: reload, err: err}
	}
}

func (m Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	m.cancelLoad = nil
	m.statusBar.SetLoading(false)
	m.rt.Host.SetPage(msg.page)

	if msg.err != nil {
		m.statusBar.SetError(msg.err)
		m.refresh()
		return m, nil
	}

	final := msg.page.FinalURL
	if final == "" {
		final = browser.NormalizeURL(msg.url)
	}
	if !msg.reload {
		m.rt.Session.Load(final)
	}
	m.urlBar.SetValue(final)
	m.rt.Announce(final)

	m.refresh()
	m.syncStatus()
	return m, nil
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.urlBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)

	height := max(m.height-urlBarHeight-statusBarHeight, 1)
	width := m.width
	if m.eventLog.IsVisible() {
		panel := max(m.width*40/100, 30)
		m.eventLog.SetSize(panel, height)
		width = max(m.width-panel-1, 10) // divider
	}
	m.viewport.SetSize(width, height)

	m.rt.Host.Resize(
		pagectx.Size{Width: m.width, Height: m.height},
		pagectx.Size{Width: width, Height: height},
	)
}

// refresh renders the note for the current URL above the page text.
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	current := m.rt.Session.Current()
	var md strings.Builder
	if m.note != nil && m.note.URL == current {
		md.WriteString(m.note.Markdown)
		md.WriteString("\n\n*handler: " + m.note.Handler + "*\n\n---\n\n")
	}
	if page := m.rt.Host.Page(); page != nil {
		md.WriteString(browser.Markdown(page))
	}
	if md.Len() == 0 {
		return
	}

	out, err := browser.RenderMarkdown(md.String(), m.viewport.Width()-2)
	if err != nil {
		m.rt.logger.Warn("render failed", "error", err)
	}
	m.viewport.SetContent(out)

	if page := m.rt.Host.Page(); page != nil {
		m.statusBar.SetTitle(page.Title)
	}
}

func (m *Model) syncStatus() {
	m.statusBar.SetStats(m.rt.Coordinator.Stats())
	m.statusBar.SetPending(m.rt.Coordinator.State().HasPending)
	m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
	if m.eventLog.IsVisible() {
		m.statusBar.SetMode("LOG")
	} else if m.mode == ModeNormal {
		m.statusBar.SetMode("NORMAL")
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading pagehook..."
	}

	body := m.viewport.View()
	if m.eventLog.IsVisible() {
		height := max(m.height-urlBarHeight-statusBarHeight, 1)
		divider := lipgloss.NewStyle().
			Foreground(theme.Current.Border).
			Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.eventLog.View(), divider, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.urlBar.View(),
		body,
		m.statusBar.View(),
	)
}
