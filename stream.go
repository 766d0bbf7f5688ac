package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio-fx/internal/events"
	"github.com/Zachkp/portfolio-fx/internal/store"
	"github.com/Zachkp/portfolio-fx/internal/typewriter"
)

const streamBuffer = 64

type sseMessage struct {
	event string
	data  any
}

// sseSink hands engine output to the request goroutine. Sends never block
// the engine: when the client falls this far behind, frames are dropped.
type sseSink struct {
	out     chan sseMessage
	frames  atomic.Int64
	dropped atomic.Int64
}

func newSSESink(size int) *sseSink {
	return &sseSink{out: make(chan sseMessage, size)}
}

func (s *sseSink) send(m sseMessage) {
	select {
	case s.out <- m:
	default:
		s.dropped.Add(1)
	}
}

func (s *sseSink) SetText(text string) {
	s.frames.Add(1)
	s.send(sseMessage{event: "frame", data: gin.H{"text": text}})
}

func (s *sseSink) AttachCursor(glyph string) {
	s.send(sseMessage{event: "cursor", data: gin.H{"glyph": glyph}})
}

func (s *sseSink) DetachCursor() {
	s.send(sseMessage{event: "cursor", data: gin.H{"glyph": ""}})
}

// streamQuery overrides preset timing for one stream, in milliseconds.
type streamQuery struct {
	Session     string `form:"session" binding:"max=128"`
	TypeSpeed   int    `form:"type_speed" binding:"max=60000"`
	DeleteSpeed int    `form:"delete_speed" binding:"max=60000"`
	Pause       int    `form:"pause" binding:"max=600000"`
	Loop        *bool  `form:"loop"`
}

func (q streamQuery) apply(cfg *typewriter.Config) {
	if q.TypeSpeed != 0 {
		cfg.TypeSpeed = time.Duration(q.TypeSpeed) * time.Millisecond
	}
	if q.DeleteSpeed != 0 {
		cfg.DeleteSpeed = time.Duration(q.DeleteSpeed) * time.Millisecond
	}
	if q.Pause != 0 {
		cfg.PauseAfterComplete = time.Duration(q.Pause) * time.Millisecond
	}
	if q.Loop != nil {
		cfg.Loop = q.Loop
	}
}

func (s *server) lookupPreset(c *gin.Context) (typewriter.Config, bool) {
	name := c.Param("preset")
	cfg, err := s.presetConfig(c.Request.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown preset " + name})
		return cfg, false
	}
	if err != nil {
		log.Printf("Error loading preset %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preset"})
		return cfg, false
	}
	return cfg, true
}

// handlePreset describes a preset with its effective timing.
func (s *server) handlePreset(c *gin.Context) {
	cfg, ok := s.lookupPreset(c)
	if !ok {
		return
	}
	cfg = cfg.WithDefaults()
	c.JSON(http.StatusOK, gin.H{
		"preset":          c.Param("preset"),
		"sequence":        cfg.Sequence,
		"type_speed_ms":   cfg.TypeSpeed.Milliseconds(),
		"delete_speed_ms": cfg.DeleteSpeed.Milliseconds(),
		"pause_ms":        cfg.PauseAfterComplete.Milliseconds(),
		"loop":            cfg.Looping(),
		"cursor":          cfg.Cursor,
	})
}

// handleStream runs one typewriter engine per connection and relays what
// it renders as server-sent events: "cursor", then "frame" for every
// rendered text, then "done" when a non-looping run completes.
func (s *server) handleStream(c *gin.Context) {
	cfg, ok := s.lookupPreset(c)
	if !ok {
		return
	}
	var q streamQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.apply(&cfg)

	sink := newSSESink(streamBuffer)
	var opts []typewriter.Option
	if s.clock != nil {
		opts = append(opts, typewriter.WithClock(s.clock))
	}
	engine, err := typewriter.Start(sink, cfg, opts...)
	if err != nil {
		var cfgErr *typewriter.ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	preset := c.Param("preset")
	client := q.Session
	if client == "" {
		client = c.ClientIP()
	}
	tracked := c.GetHeader("DNT") != "1"
	streamID := uuid.NewString()
	if tracked {
		if err := s.store.StartStream(c.Request.Context(), streamID, s.hashID(client), preset); err != nil {
			log.Printf("Error recording stream start: %v", err)
		}
	}

	reason := "client_gone"
	defer func() {
		frames := int(sink.frames.Load())
		engine.Stop()
		var finished events.Event = events.StreamFinished{
			Base:   events.Base{Session: q.Session},
			Stream: streamID,
			Preset: preset,
			Frames: frames,
			Reason: reason,
		}
		if !tracked {
			finished = events.Untrack(finished)
		}
		s.dispatcher.Dispatch(finished)
		if n := sink.dropped.Load(); n > 0 {
			log.Printf("Stream %s dropped %d messages", streamID, n)
		}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case m := <-sink.out:
			c.SSEvent(m.event, m.data)
			return true
		case <-engine.Done():
			drain(c, sink)
			c.SSEvent("done", gin.H{"stream": streamID})
			reason = "finished"
			return false
		case <-ctx.Done():
			return false
		}
	})
}

// drain relays whatever the engine rendered before it finished.
func drain(c *gin.Context, sink *sseSink) {
	for {
		select {
		case m := <-sink.out:
			c.SSEvent(m.event, m.data)
		default:
			return
		}
	}
}
