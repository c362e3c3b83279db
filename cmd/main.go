package main

import (
	"log"
	"os"

	"browsestorage/backend/internal/browse"
	"browsestorage/backend/internal/config"
	"browsestorage/backend/internal/handler"
	"browsestorage/backend/internal/hook"
	"browsestorage/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	path := os.Getenv("BROWSE_CONFIG")
	if path == "" {
		path = "config/browse.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Error loading config %s: %v", path, err)
	}

	hooks := hook.NewRegistry()
	registerHooks(hooks)
	if err := hooks.Check(cfg.Tables()); err != nil {
		log.Fatalf("Error checking hooks: %v", err)
	}

	sources := service.NewSources()
	defer sources.Close()

	prefix := handler.DefaultXSSIPrefix
	if v, ok := os.LookupEnv("BROWSE_XSSI_PREFIX"); ok {
		prefix = v
	}

	r := gin.Default()
	r.Use(handler.NoCache(), handler.RequestID())
	handler.New(browse.New(cfg, sources, hooks), prefix).Register(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
