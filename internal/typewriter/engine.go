// Package typewriter types and deletes strings into a text sink on a timer,
// one character per tick.
//
// An Engine is a small state machine:
//
//	Typing --full--> Waiting --pause--> Deleting --empty--> Typing (next string)
//	                                              \--wrapped, no loop--> Done
//
// Every transition happens inside a single step driven by the engine's Clock.
// Stop moves any state to Stopped.
package typewriter

import (
	"sync"
	"time"

	"github.com/rivo/uniseg"
)

// Phase is the engine's current state.
type Phase int

const (
	Typing Phase = iota
	Waiting
	Deleting
	Done
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Typing:
		return "typing"
	case Waiting:
		return "waiting"
	case Deleting:
		return "deleting"
	case Done:
		return "done"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the engine state after a step.
type Snapshot struct {
	Index int
	Count int
	Phase Phase
	Text  string
}

// Option customizes an Engine at Start.
type Option func(*Engine)

// WithClock replaces the real clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithObserver registers fn to be called after every rendered step. fn runs
// with the engine locked and must not call back into the engine.
func WithObserver(fn func(Snapshot)) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, fn)
	}
}

// Engine renders prefixes of its sequence into a Sink until stopped.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	sink      Sink
	clock     Clock
	observers []func(Snapshot)

	// bounds[i][n] is the byte offset of the end of the n-th grapheme
	// cluster of Sequence[i]; bounds[i][0] is 0.
	bounds [][]int

	index int
	count int
	phase Phase

	timer Timer
	gen   uint64
	done  chan struct{}
}

// Start validates cfg, clears the sink, attaches the cursor and performs the
// first step. A failed Start touches neither the sink nor the clock.
func Start(sink Sink, cfg Config, opts ...Option) (*Engine, error) {
	if sink == nil {
		return nil, &ConfigurationError{Field: "sink", Reason: "must not be nil"}
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		sink:  sink,
		clock: RealClock(),
		done:  make(chan struct{}),
		phase: Typing,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bounds = make([][]int, len(cfg.Sequence))
	for i, s := range cfg.Sequence {
		e.bounds[i] = clusterBounds(s)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink.SetText("")
	e.sink.AttachCursor(cfg.Cursor)
	e.step()
	return e, nil
}

func clusterBounds(s string) []int {
	bounds := []int{0}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		_, end := g.Positions()
		bounds = append(bounds, end)
	}
	return bounds
}

// Config returns the effective configuration, defaults included.
func (e *Engine) Config() Config {
	return e.cfg
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Done is closed once the engine finishes a non-looping run or is stopped.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Stop cancels the pending step, resets the sink to the first string and
// detaches the cursor. Calling Stop more than once is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == Stopped {
		return
	}
	finished := e.phase == Done
	e.phase = Stopped
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.sink.SetText(e.cfg.Sequence[0])
	e.sink.DetachCursor()
	if !finished {
		close(e.done)
	}
}

// step performs one tick. The caller holds e.mu.
func (e *Engine) step() {
	if e.phase != Typing && e.phase != Deleting {
		return
	}

	bounds := e.bounds[e.index]
	full := len(bounds) - 1

	if e.phase == Typing {
		if e.count < full {
			e.count++
		}
		e.render()
		if e.count == full {
			e.phase = Waiting
			e.schedule(e.cfg.PauseAfterComplete, e.startDeleting)
			return
		}
		e.schedule(e.cfg.TypeSpeed, e.step)
		return
	}

	if e.count > 0 {
		e.count--
	}
	e.render()
	if e.count > 0 {
		e.schedule(e.cfg.DeleteSpeed, e.step)
		return
	}
	e.index = (e.index + 1) % len(e.cfg.Sequence)
	if e.index == 0 && !e.cfg.Looping() {
		e.phase = Done
		e.timer = nil
		close(e.done)
		return
	}
	e.phase = Typing
	e.schedule(e.cfg.TypeSpeed, e.step)
}

func (e *Engine) startDeleting() {
	e.phase = Deleting
	e.step()
}

// schedule arranges for fn to run under the lock after d, unless the engine
// has been stopped or rescheduled in the meantime.
func (e *Engine) schedule(d time.Duration, fn func()) {
	e.gen++
	gen := e.gen
	e.timer = e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.gen != gen || e.phase == Stopped {
			return
		}
		e.timer = nil
		fn()
	})
}

func (e *Engine) render() {
	text := e.text()
	e.sink.SetText(text)
	if len(e.observers) == 0 {
		return
	}
	snap := e.snapshot()
	for _, fn := range e.observers {
		fn(snap)
	}
}

func (e *Engine) text() string {
	return e.cfg.Sequence[e.index][:e.bounds[e.index][e.count]]
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{Index: e.index, Count: e.count, Phase: e.phase, Text: e.text()}
}
