package typewriter

import (
	"fmt"
	"time"
)

const (
	DefaultTypeSpeed          = 100 * time.Millisecond
	DefaultDeleteSpeed        = 50 * time.Millisecond
	DefaultPauseAfterComplete = 2000 * time.Millisecond
	DefaultCursor             = "|"
)

// DefaultSequence is used when a Config has no strings of its own.
var DefaultSequence = []string{"Web Developer", "Designer", "Storyteller"}

// Config controls what an engine types and how fast.
//
// Zero values mean "use the default": a nil Sequence types DefaultSequence,
// a zero TypeSpeed, DeleteSpeed or PauseAfterComplete takes the matching
// Default constant, and an empty Cursor becomes DefaultCursor, so the
// cursor cannot be switched off by leaving it blank. Negative durations
// are rejected by Validate. Loop is a pointer so that nil can mean true.
type Config struct {
	Sequence           []string
	TypeSpeed          time.Duration
	DeleteSpeed        time.Duration
	PauseAfterComplete time.Duration
	Loop               *bool
	Cursor             string
}

// ConfigurationError reports a Config or sink that an engine cannot start with.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("typewriter: invalid %s: %s", e.Field, e.Reason)
}

// Bool returns a pointer to v, for Config.Loop.
func Bool(v bool) *bool {
	return &v
}

// Looping reports whether the engine restarts after the last string.
func (c Config) Looping() bool {
	return c.Loop == nil || *c.Loop
}

// WithDefaults returns a copy of c with every unset field filled in.
// Explicitly negative durations are left alone so Validate can reject them.
func (c Config) WithDefaults() Config {
	if c.Sequence == nil {
		c.Sequence = DefaultSequence
	}
	seq := make([]string, len(c.Sequence))
	copy(seq, c.Sequence)
	c.Sequence = seq
	if c.TypeSpeed == 0 {
		c.TypeSpeed = DefaultTypeSpeed
	}
	if c.DeleteSpeed == 0 {
		c.DeleteSpeed = DefaultDeleteSpeed
	}
	if c.PauseAfterComplete == 0 {
		c.PauseAfterComplete = DefaultPauseAfterComplete
	}
	if c.Cursor == "" {
		c.Cursor = DefaultCursor
	}
	if c.Loop == nil {
		c.Loop = Bool(true)
	}
	return c
}

// Validate checks a defaulted Config.
func (c Config) Validate() error {
	if len(c.Sequence) == 0 {
		return &ConfigurationError{Field: "sequence", Reason: "must contain at least one string"}
	}
	if c.TypeSpeed <= 0 {
		return &ConfigurationError{Field: "typeSpeed", Reason: fmt.Sprintf("must be positive, got %s", c.TypeSpeed)}
	}
	if c.DeleteSpeed <= 0 {
		return &ConfigurationError{Field: "deleteSpeed", Reason: fmt.Sprintf("must be positive, got %s", c.DeleteSpeed)}
	}
	if c.PauseAfterComplete < 0 {
		return &ConfigurationError{Field: "pauseAfterComplete", Reason: fmt.Sprintf("must not be negative, got %s", c.PauseAfterComplete)}
	}
	return nil
}
