// admin.go - privacy-conscious admin area for typewriter phrases and usage
package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio-fx/internal/store"
)

const adminCookie = "admin_token"

type phraseRequest struct {
	Preset string `form:"preset" json:"preset" binding:"required,max=64,alphanum"`
	Text   string `form:"text" json:"text" binding:"required,max=200"`
}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *server) validCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	return userOK && passOK
}

// cleanupUsage removes usage records older than the retention period.
func (s *server) cleanupUsage(ctx context.Context) (int64, error) {
	removed, err := s.store.Cleanup(ctx, s.cfg.Retention)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("Privacy cleanup: Removed %d usage records older than %s", removed, s.cfg.Retention)
	}
	return removed, nil
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": int(s.cfg.Retention.Hours() / 24),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if s.validCredentials(c.PostForm("username"), c.PostForm("password")) {
			// Set secure cookie (24 hours)
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", s.hashID(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", s.hashID(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.hashID(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		ctx := c.Request.Context()
		stats, err := s.store.Stats(ctx)
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		phrases, err := s.store.ListPhrases(ctx)
		if err != nil {
			log.Printf("Error loading phrases: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load phrases",
			})
			return
		}
		names, err := s.store.Presets(ctx)
		if err != nil {
			log.Printf("Error loading presets: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load presets",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":   stats,
			"phrases": phrases,
			"presets": names,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/api/phrases", func(c *gin.Context) {
		phrases, err := s.store.ListPhrases(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, phrases)
	})

	adminGroup.GET("/api/presets", func(c *gin.Context) {
		names, err := s.store.Presets(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"presets": names})
	})

	adminGroup.POST("/phrases", func(c *gin.Context) {
		var req phraseRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		phrase, err := s.store.AddPhrase(c.Request.Context(), req.Preset, req.Text)
		if err != nil {
			log.Printf("Error adding phrase to %s: %v", req.Preset, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add phrase"})
			return
		}
		log.Printf("Phrase %d added to %s by admin from %s", phrase.ID, phrase.Preset, s.hashID(c.ClientIP()))
		c.JSON(http.StatusCreated, phrase)
	})

	adminGroup.DELETE("/phrases/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phrase id"})
			return
		}

		err = s.store.DeletePhrase(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Phrase not found"})
			return
		}
		if err != nil {
			log.Printf("Error deleting phrase %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete phrase"})
			return
		}

		log.Printf("Phrase %d deleted by admin from %s", id, s.hashID(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Phrase deleted successfully"})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		removed, err := s.cleanupUsage(ctx)
		if err != nil {
			log.Printf("Error cleaning up usage data: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", s.hashID(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
