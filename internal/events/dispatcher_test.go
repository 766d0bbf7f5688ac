package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_OrderAndKinds(t *testing.T) {
	d := NewDispatcher()
	var got []string

	d.Subscribe(KindSectionEntered, func(e Event) {
		got = append(got, "first:"+e.(SectionEntered).Section)
	})
	d.SubscribeAll(func(e Event) {
		got = append(got, "all:"+string(e.Kind()))
	})
	d.Subscribe(KindSectionEntered, func(e Event) {
		got = append(got, "second:"+e.SessionID())
	})

	n := d.Dispatch(SectionEntered{Base: Base{Session: "s1"}, Section: "about"})
	assert.Equal(t, 3, n)
	n = d.Dispatch(ScrollPositionChanged{Y: 12})
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{
		"first:about",
		"all:section_entered",
		"second:s1",
		"all:scroll_position_changed",
	}, got)
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	unsub := d.Subscribe(KindScrollPositionChanged, func(Event) { calls++ })

	d.Dispatch(ScrollPositionChanged{Y: 1})
	unsub()
	unsub()
	d.Dispatch(ScrollPositionChanged{Y: 2})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.Dispatch(nil))
}

func TestDispatcher_UnsubscribeDuringDispatch(t *testing.T) {
	d := NewDispatcher()
	var calls []string
	var unsubSecond func()
	d.SubscribeAll(func(Event) {
		calls = append(calls, "first")
		unsubSecond()
	})
	unsubSecond = d.SubscribeAll(func(Event) { calls = append(calls, "second") })

	d.Dispatch(SectionEntered{Section: "home"})
	d.Dispatch(SectionEntered{Section: "home"})

	assert.Equal(t, []string{"first", "second", "first"}, calls)
}

func TestDecode(t *testing.T) {
	e, err := Decode(KindSectionEntered, []byte(`{"session":"abc","section":"projects","extra":1}`))
	require.NoError(t, err)
	assert.Equal(t, SectionEntered{Base: Base{Session: "abc"}, Section: "projects"}, e)

	e, err = Decode(KindScrollPositionChanged, []byte(`{"session":"abc","y":320.5}`))
	require.NoError(t, err)
	assert.Equal(t, 320.5, e.(ScrollPositionChanged).Y)

	e, err = Decode(KindMenuToggled, []byte(`{"session":"abc","open":true}`))
	require.NoError(t, err)
	assert.Equal(t, MenuToggled{Base: Base{Session: "abc"}, Open: true}, e)

	_, err = Decode(KindMenuToggled, []byte(`{"open":"yes"}`))
	assert.Error(t, err)

	_, err = Decode(KindSectionEntered, []byte(`{"session":"abc"}`))
	assert.Error(t, err)

	_, err = Decode(KindSectionEntered, []byte(`{`))
	assert.Error(t, err)

	_, err = Decode(KindStreamFinished, []byte(`{}`))
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestUntrack(t *testing.T) {
	e := SectionEntered{Base: Base{Session: "s"}, Section: "about"}
	assert.True(t, e.Tracked())

	u := Untrack(e)
	assert.False(t, u.Tracked())
	assert.Equal(t, "about", u.(SectionEntered).Section)
	assert.True(t, e.Tracked(), "original is unchanged")

	assert.False(t, Untrack(StreamFinished{Stream: "x"}).Tracked())
	assert.False(t, Untrack(MenuToggled{Open: true}).Tracked())
}
