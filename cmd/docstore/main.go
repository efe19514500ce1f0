package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/config"
	"github.com/joinboard/join-api/internal/database"
	"github.com/joinboard/join-api/internal/docstore"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(&docstore.Document{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	server := docstore.NewServer(docstore.NewStorage(database.GetDB()))
	server.RegisterRoutes(r)

	// Start server
	log.Printf("Document store starting on %s", cfg.DocstoreAddr)
	if err := r.Run(cfg.DocstoreAddr); err != nil {
		log.Fatalf("Failed to start document store: %v", err)
	}
}
