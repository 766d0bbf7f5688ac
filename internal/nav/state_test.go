package nav

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-fx/internal/events"
)

func scroll(session string, y float64) events.ScrollPositionChanged {
	return events.ScrollPositionChanged{Base: events.Base{Session: session}, Y: y}
}

func TestState_ScrollThresholds(t *testing.T) {
	tests := []struct {
		y         float64
		scrolled  bool
		backToTop bool
	}{
		{0, false, false},
		{50, false, false},
		{51, true, false},
		{300, true, false},
		{300.5, true, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.y), func(t *testing.T) {
			s := initialState().Apply(scroll("s", tt.y))
			assert.Equal(t, tt.scrolled, s.NavbarScrolled)
			assert.Equal(t, tt.backToTop, s.BackToTopVisible)
			assert.Equal(t, DefaultSection, s.ActiveSection)
		})
	}
}

func TestTracker_ViaDispatcher(t *testing.T) {
	tr, err := NewTracker(8)
	require.NoError(t, err)
	d := events.NewDispatcher()
	detach := tr.Attach(d)

	d.Dispatch(events.SectionEntered{Base: events.Base{Session: "a"}, Section: "projects"})
	d.Dispatch(scroll("a", 400))
	d.Dispatch(scroll("b", 10))
	d.Dispatch(scroll("", 999))

	assert.Equal(t, State{ActiveSection: "projects", ScrollY: 400, NavbarScrolled: true, BackToTopVisible: true}, tr.State("a"))
	assert.Equal(t, State{ActiveSection: "home", ScrollY: 10}, tr.State("b"))
	assert.Equal(t, initialState(), tr.State("unknown"))
	assert.Equal(t, 2, tr.Len())

	detach()
	d.Dispatch(events.SectionEntered{Base: events.Base{Session: "a"}, Section: "contact"})
	assert.Equal(t, "projects", tr.State("a").ActiveSection)
}

func TestTracker_EvictsOldestSession(t *testing.T) {
	tr, err := NewTracker(2)
	require.NoError(t, err)

	tr.Handle(events.SectionEntered{Base: events.Base{Session: "one"}, Section: "about"})
	tr.Handle(events.SectionEntered{Base: events.Base{Session: "two"}, Section: "about"})
	tr.Handle(events.SectionEntered{Base: events.Base{Session: "three"}, Section: "about"})

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, DefaultSection, tr.State("one").ActiveSection)
	assert.Equal(t, "about", tr.State("three").ActiveSection)
}

func TestTracker_MenuOpenAndClose(t *testing.T) {
	tr, err := NewTracker(4)
	require.NoError(t, err)
	d := events.NewDispatcher()
	tr.Attach(d)

	toggle := func(open bool) {
		d.Dispatch(events.MenuToggled{Base: events.Base{Session: "m"}, Open: open})
	}

	toggle(true)
	d.Dispatch(scroll("m", 60))
	assert.Equal(t, State{ActiveSection: DefaultSection, ScrollY: 60, NavbarScrolled: true, MenuOpen: true}, tr.State("m"))

	toggle(false)
	assert.False(t, tr.State("m").MenuOpen)
	assert.True(t, tr.State("m").NavbarScrolled)
}
