// Package events defines the typed events the page and the typewriter
// stream produce, and a dispatcher that fans them out to subscribers.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind identifies an event type on the wire.
type Kind string

const (
	KindSectionEntered        Kind = "section_entered"
	KindScrollPositionChanged Kind = "scroll_position_changed"
	KindMenuToggled           Kind = "menu_toggled"
	KindStreamFinished        Kind = "stream_finished"
)

// ErrUnknownKind is returned by Decode for kinds it cannot build.
var ErrUnknownKind = errors.New("events: unknown event kind")

// Event is implemented by every event type in this package.
type Event interface {
	Kind() Kind
	SessionID() string
	Tracked() bool
}

// Base carries the fields shared by every event.
type Base struct {
	Session string `json:"session"`
	// Untracked marks events from clients that asked not to be tracked
	// (DNT). They still update live state but are never persisted.
	Untracked bool `json:"-"`
}

func (b Base) SessionID() string {
	return b.Session
}

// Tracked reports whether the event may be persisted.
func (b Base) Tracked() bool {
	return !b.Untracked
}

// SectionEntered is sent when a page section scrolls into view.
type SectionEntered struct {
	Base
	Section string `json:"section"`
}

func (SectionEntered) Kind() Kind { return KindSectionEntered }

// ScrollPositionChanged carries the vertical scroll offset in CSS pixels.
type ScrollPositionChanged struct {
	Base
	Y float64 `json:"y"`
}

func (ScrollPositionChanged) Kind() Kind { return KindScrollPositionChanged }

// MenuToggled is sent when the mobile navigation menu opens or closes.
type MenuToggled struct {
	Base
	Open bool `json:"open"`
}

func (MenuToggled) Kind() Kind { return KindMenuToggled }

// StreamFinished is emitted by the server when a typewriter stream ends.
type StreamFinished struct {
	Base
	Stream string `json:"stream"`
	Preset string `json:"preset"`
	Frames int    `json:"frames"`
	Reason string `json:"reason"`
}

func (StreamFinished) Kind() Kind { return KindStreamFinished }

// Decode builds the event named by kind from its JSON payload. Only
// page-originated kinds are accepted.
func Decode(kind Kind, payload []byte) (Event, error) {
	switch kind {
	case KindSectionEntered:
		var e SectionEntered
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		if e.Section == "" {
			return nil, fmt.Errorf("decode %s: section is required", kind)
		}
		return e, nil
	case KindScrollPositionChanged:
		var e ScrollPositionChanged
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return e, nil
	case KindMenuToggled:
		var e MenuToggled
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Untrack returns a copy of e marked as not to be persisted.
func Untrack(e Event) Event {
	switch ev := e.(type) {
	case SectionEntered:
		ev.Untracked = true
		return ev
	case ScrollPositionChanged:
		ev.Untracked = true
		return ev
	case MenuToggled:
		ev.Untracked = true
		return ev
	case StreamFinished:
		ev.Untracked = true
		return ev
	}
	return e
}
