// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Browses every slice of the store and re-renders on store events
package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewGraph
	ViewConfirmDelete
)

// EntityType represents the type of entity being viewed
type EntityType int

const (
	EntityContacts EntityType = iota
	EntityLeads
	EntityProperties
	EntityLocations
	EntityUsers
	entityCount
)

var entityTabs = []string{"Contacts", "Leads", "Properties", "Locations", "Users"}

// brandCycle is the order the b key steps through. Both means no filter.
var brandCycle = []models.BrandAccess{
	models.BrandAccessBoth,
	models.BrandAccessBusinessSetup,
	models.BrandAccessRealEstate,
}

// storeEventMsg wraps a store event delivered to the program.
type storeEventMsg store.Event

// refreshDoneMsg is sent when a refresh of every slice settles.
type refreshDoneMsg struct{ err error }

// deleteDoneMsg is sent when a delete settles.
type deleteDoneMsg struct {
	id  int64
	err error
}

// Model is the main bubbletea model
type Model struct {
	store  *store.Store
	feed   *eventFeed
	events chan store.Event

	viewMode   ViewMode
	entityType EntityType
	brandIdx   int

	// List view state
	selectedRow int

	// Detail view state
	selectedID int64

	// Graph view state
	graphDOT string

	// Status line: last refresh or delete outcome
	message string

	// UI state
	width  int
	height int
	err    error
}

// eventFeed forwards store events into a buffered channel until closed.
type eventFeed struct {
	mu          sync.Mutex
	ch          chan store.Event
	closed      bool
	unsubscribe func()
}

func (f *eventFeed) send(ev store.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- ev:
	default:
		// Dropped; every render reads the store anyway.
	}
}

func (f *eventFeed) close() {
	f.unsubscribe()
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

// NewModel creates a new TUI model subscribed to s. Call Close when the
// program exits.
func NewModel(s *store.Store) Model {
	feed := &eventFeed{ch: make(chan store.Event, 64)}
	feed.unsubscribe = s.Subscribe(feed.send)

	return Model{
		store:      s,
		feed:       feed,
		events:     feed.ch,
		viewMode:   ViewList,
		entityType: EntityContacts,
		width:      80,
		height:     24,
	}
}

// Close removes the store subscription and closes the event channel.
// It is safe to call more than once.
func (m Model) Close() {
	if m.feed != nil {
		m.feed.close()
	}
}

// Run starts the full-screen program and blocks until it exits.
func Run(s *store.Store) error {
	m := NewModel(s)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.refresh())
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return storeEventMsg(ev)
	}
}

func (m Model) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return refreshDoneMsg{err: s.FetchAll(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case storeEventMsg:
		// State is read from the store at render time.
		return m, m.waitForEvent()
	case refreshDoneMsg:
		m.err = msg.err
		if msg.err != nil {
			m.message = "Refresh failed: " + msg.err.Error()
		} else {
			m.message = "Refreshed"
		}
		return m, nil
	case deleteDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.message = "Error: " + msg.err.Error()
		} else {
			m.message = fmt.Sprintf("Deleted #%d", msg.id)
		}
		m.clampSelection()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// brand returns the active brand filter; Both means unfiltered.
func (m Model) brand() models.BrandAccess {
	return brandCycle[m.brandIdx%len(brandCycle)]
}

func (m Model) brandLabel() string {
	if m.brand() == models.BrandAccessBoth {
		return "All brands"
	}
	return m.brand().String()
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
