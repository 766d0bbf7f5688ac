package main

import (
	"context"
	"log"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/portfolio-fx/internal/presets"
	"github.com/Zachkp/portfolio-fx/internal/store"
)

func main() {
	cfg := loadConfig()

	list := builtinPresets
	if cfg.PresetsFile != "" {
		loaded, err := presets.Load(cfg.PresetsFile)
		if err != nil {
			log.Fatal("Failed to load presets:", err)
		}
		list = loaded
		log.Printf("Loaded %d presets from %s", len(list), cfg.PresetsFile)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer st.Close()

	srv, err := newServer(cfg, st, list)
	if err != nil {
		log.Fatal("Failed to initialize server:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := srv.seedPresets(ctx); err != nil {
		cancel()
		log.Fatal("Failed to seed presets:", err)
	}
	cancel()

	log.Println("Privacy: usage tracking enabled with hashed client ids")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := srv.cleanupUsage(ctx); err != nil {
			log.Printf("Error cleaning up old usage data: %v", err)
		}
	}()

	if err := srv.router().Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
