package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio-fx/internal/events"
	"github.com/Zachkp/portfolio-fx/internal/nav"
	"github.com/Zachkp/portfolio-fx/internal/presets"
	"github.com/Zachkp/portfolio-fx/internal/store"
	"github.com/Zachkp/portfolio-fx/internal/typewriter"
)

//go:embed templates/*.html
var templateFS embed.FS

// server owns everything the routes share. There is one per process.
type server struct {
	cfg        Config
	store      *store.Store
	presets    []presets.Preset
	dispatcher *events.Dispatcher
	nav        *nav.Tracker

	adminToken  string
	hashingSalt string

	// clock drives typewriter engines; nil means the real clock.
	clock typewriter.Clock
}

func newServer(cfg Config, st *store.Store, list []presets.Preset) (*server, error) {
	tracker, err := nav.NewTracker(cfg.NavSessions)
	if err != nil {
		return nil, err
	}
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate admin token: %w", err)
	}
	salt, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate hashing salt: %w", err)
	}

	s := &server{
		cfg:         cfg,
		store:       st,
		presets:     list,
		dispatcher:  events.NewDispatcher(),
		nav:         tracker,
		adminToken:  token,
		hashingSalt: salt,
	}
	s.nav.Attach(s.dispatcher)
	s.dispatcher.Subscribe(events.KindSectionEntered, s.recordSectionView)
	s.dispatcher.Subscribe(events.KindStreamFinished, s.recordStreamFinished)

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", s.adminToken)
	}
	return s, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashID hashes an ip or session id so that raw identifiers never reach
// the database or the logs. The same input maps to the same hash for the
// lifetime of the process.
func (s *server) hashID(id string) string {
	hash := sha256.New()
	hash.Write([]byte(id + s.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// seedPresets stores the sequences of every known preset that the
// database does not have yet.
func (s *server) seedPresets(ctx context.Context) error {
	for _, p := range s.presets {
		inserted, err := s.store.Seed(ctx, p.Name, p.Strings)
		if err != nil {
			return err
		}
		if inserted {
			log.Printf("Seeded preset %q with %d phrases", p.Name, len(p.Strings))
		}
	}
	return nil
}

// presetConfig combines the stored sequence of a preset with its timing.
// Presets created from the admin area have no timing and use the defaults.
func (s *server) presetConfig(ctx context.Context, name string) (typewriter.Config, error) {
	seq, err := s.store.Sequence(ctx, name)
	if err != nil {
		return typewriter.Config{}, err
	}
	var cfg typewriter.Config
	if p, ok := presets.Find(s.presets, name); ok {
		cfg = p.Config()
	}
	cfg.Sequence = seq
	return cfg, nil
}

func (s *server) recordSectionView(e events.Event) {
	if !e.Tracked() {
		return
	}
	ev := e.(events.SectionEntered)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.RecordSectionView(ctx, s.hashID(ev.Session), ev.Section); err != nil {
		log.Printf("Error recording section view: %v", err)
	}
}

func (s *server) recordStreamFinished(e events.Event) {
	if !e.Tracked() {
		return
	}
	ev := e.(events.StreamFinished)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.store.FinishStream(ctx, ev.Stream, ev.Frames, ev.Reason)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("Error recording stream %s: %v", ev.Stream, err)
	}
}

func (s *server) router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type", "Last-Event-ID"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"preset": "hero",
			"cursor": typewriter.DefaultCursor,
		})
	})

	r.GET("/typewriter/:preset", s.handlePreset)
	r.GET("/typewriter/:preset/stream", s.handleStream)
	r.POST("/events", s.handleEvent)

	s.setupAdminRoutes(r)
	return r
}
