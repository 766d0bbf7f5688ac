// Package nav tracks per-session navigation state from page events.
package nav

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Zachkp/portfolio-fx/internal/events"
)

const (
	DefaultSection = "home"

	// NavbarScrollThreshold is the offset past which the navbar counts as scrolled.
	NavbarScrollThreshold = 50
	// BackToTopThreshold is the offset past which the back-to-top button shows.
	BackToTopThreshold = 300

	DefaultMaxSessions = 1024
)

// State is what the page needs to highlight its navigation.
type State struct {
	ActiveSection    string  `json:"active_section"`
	ScrollY          float64 `json:"scroll_y"`
	NavbarScrolled   bool    `json:"navbar_scrolled"`
	BackToTopVisible bool    `json:"back_to_top_visible"`
	MenuOpen         bool    `json:"menu_open"`
}

func initialState() State {
	return State{ActiveSection: DefaultSection}
}

// Apply returns s updated by e. Events of other kinds leave s unchanged.
func (s State) Apply(e events.Event) State {
	switch ev := e.(type) {
	case events.SectionEntered:
		s.ActiveSection = ev.Section
	case events.ScrollPositionChanged:
		s.ScrollY = ev.Y
		s.NavbarScrolled = ev.Y > NavbarScrollThreshold
		s.BackToTopVisible = ev.Y > BackToTopThreshold
	case events.MenuToggled:
		s.MenuOpen = ev.Open
	}
	return s
}

// Tracker holds State for the most recently active sessions.
type Tracker struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, State]
}

func NewTracker(maxSessions int) (*Tracker, error) {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	cache, err := lru.New[string, State](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("nav: create session cache: %w", err)
	}
	return &Tracker{sessions: cache}, nil
}

// Attach subscribes the tracker to navigation events on d.
func (t *Tracker) Attach(d *events.Dispatcher) (detach func()) {
	a := d.Subscribe(events.KindSectionEntered, t.Handle)
	b := d.Subscribe(events.KindScrollPositionChanged, t.Handle)
	m := d.Subscribe(events.KindMenuToggled, t.Handle)
	return func() {
		a()
		b()
		m()
	}
}

// Handle updates the state of the event's session. Events without a
// session are ignored.
func (t *Tracker) Handle(e events.Event) {
	session := e.SessionID()
	if session == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions.Get(session)
	if !ok {
		s = initialState()
	}
	t.sessions.Add(session, s.Apply(e))
}

// State returns the session's state, or the initial state if unknown.
func (t *Tracker) State(session string) State {
	if s, ok := t.sessions.Get(session); ok {
		return s
	}
	return initialState()
}

// Len returns the number of tracked sessions.
func (t *Tracker) Len() int {
	return t.sessions.Len()
}
