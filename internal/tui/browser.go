// Package tui implements the interactive view browser. It is a Bubble
// Tea front end over the viewdata retrieval layer: selecting a catalog
// entry drives a Watcher, and the model renders a spinner, an error
// line, or the fetched view according to the watcher's state.
package tui

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/acousticlab/soundview/internal/viewdata"
	"github.com/acousticlab/soundview/internal/views"
)

// BrowserState represents the current state of the browser TUI.
type BrowserState int

const (
	// BrowserStateList indicates the catalog list has focus.
	BrowserStateList BrowserState = iota
	// BrowserStateLoading indicates a view load is in flight.
	BrowserStateLoading
	// BrowserStateViewing indicates a fetched view is displayed.
	BrowserStateViewing
	// BrowserStateError indicates the last load failed.
	BrowserStateError
)

// RenderFunc renders a fetched payload for display. Injected by the CLI
// so the TUI shares the same renderers as the get command.
type RenderFunc func(views.Request, json.RawMessage) (string, error)

// viewSettledMsg is sent when a watcher load settles.
type viewSettledMsg struct {
	key   string
	state viewdata.State
}

// catalogItem adapts a views.Descriptor to the bubbles list.
type catalogItem struct {
	desc views.Descriptor
}

func (i catalogItem) Title() string       { return i.desc.Name }
func (i catalogItem) Description() string { return i.desc.Title }
func (i catalogItem) FilterValue() string { return i.desc.Name + " " + i.desc.Title }

// Default dimensions before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model is the Bubble Tea model for the view browser.
type Model struct {
	ctx     context.Context
	watcher *viewdata.Watcher
	render  RenderFunc

	list    list.Model
	spinner spinner.Model

	state      BrowserState
	currentKey string
	current    views.Request
	content    string
	err        error

	width  int
	height int
}

// New creates a browser over the given loader.
func New(ctx context.Context, loader *viewdata.Loader, render RenderFunc) *Model {
	items := make([]list.Item, 0, len(views.Catalog()))
	for _, d := range views.Catalog() {
		items = append(items, catalogItem{desc: d})
	}

	l := list.New(items, list.NewDefaultDelegate(), defaultWidth, defaultHeight-2)
	l.Title = "soundview"
	l.SetShowStatusBar(false)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		ctx:     ctx,
		watcher: viewdata.NewWatcher(loader),
		render:  render,
		list:    l,
		spinner: s,
		state:   BrowserStateList,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case viewSettledMsg:
		// A stale message carries an old key; a message arriving after
		// the user escaped back to the list is equally unwanted.
		if m.state != BrowserStateLoading || msg.key != m.currentKey {
			return m, nil
		}
		return m.applyState(msg.state), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is accepting input, printable keys belong to
	// the filter, not to the shortcuts below. ctrl+c still quits.
	if m.state == BrowserStateList && m.list.FilterState() == list.Filtering && msg.String() != "ctrl+c" {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.state == BrowserStateViewing || m.state == BrowserStateError {
			m.state = BrowserStateList
			return m, nil
		}
		m.watcher.Close()
		return m, tea.Quit

	case "esc":
		if m.state == BrowserStateLoading {
			m.watcher.Close()
		}
		if m.state != BrowserStateList {
			m.state = BrowserStateList
			return m, nil
		}

	case "enter":
		if m.state == BrowserStateList {
			return m.selectCurrent()
		}

	case "r":
		if m.state == BrowserStateViewing || m.state == BrowserStateError {
			return m.startLoad(m.current)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) selectCurrent() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(catalogItem)
	if !ok {
		return m, nil
	}

	req, err := views.NewRequest(item.desc.Name, nil)
	if err != nil {
		m.err = err
		m.state = BrowserStateError
		return m, nil
	}
	return m.startLoad(req)
}

// startLoad hands the request to the watcher and returns a command that
// waits for the load to settle.
func (m *Model) startLoad(req views.Request) (tea.Model, tea.Cmd) {
	m.current = req
	m.currentKey = req.Key()
	m.state = BrowserStateLoading
	m.err = nil

	settled := m.watcher.Set(m.ctx, req)

	key := m.currentKey
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		state, ok := <-settled
		if !ok {
			// Superseded before settling; a newer load owns the screen.
			return nil
		}
		return viewSettledMsg{key: key, state: state}
	})
}

// applyState folds a settled watcher state into the model.
func (m *Model) applyState(state viewdata.State) *Model {
	if state.Err != nil {
		m.err = state.Err
		m.state = BrowserStateError
		return m
	}

	rendered, err := m.render(m.current, state.Data)
	if err != nil {
		m.err = err
		m.state = BrowserStateError
		return m
	}

	m.content = rendered
	m.state = BrowserStateViewing
	return m
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.state {
	case BrowserStateLoading:
		return fmt.Sprintf("\n  %s Loading %s…\n\n  %s",
			m.spinner.View(), m.current.Name(), helpStyle().Render("esc to cancel"))

	case BrowserStateError:
		return fmt.Sprintf("\n  %s\n\n  %s",
			errorStyle().Render("Error: "+m.err.Error()),
			helpStyle().Render("r to retry · esc to go back"))

	case BrowserStateViewing:
		return m.content + "\n" + helpStyle().Render("r to re-fetch · esc to go back · q to quit")

	default:
		return m.list.View()
	}
}

func helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
}
