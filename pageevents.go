package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Zachkp/portfolio-fx/internal/events"
)

// eventEnvelope is the part of every page event needed to route it.
type eventEnvelope struct {
	Type    string `json:"type" binding:"required"`
	Session string `json:"session" binding:"required,max=128"`
}

// handleEvent accepts one page event, dispatches it and answers with the
// session's navigation state.
func (s *server) handleEvent(c *gin.Context) {
	var env eventEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// The body was cached by the bind above; decode the full event from it.
	raw := c.MustGet(gin.BodyBytesKey).([]byte)

	e, err := events.Decode(events.Kind(env.Type), raw)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, events.ErrUnknownKind) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Respect Do Not Track header
	if c.GetHeader("DNT") == "1" {
		e = events.Untrack(e)
	}
	s.dispatcher.Dispatch(e)

	c.JSON(http.StatusOK, s.nav.State(env.Session))
}
