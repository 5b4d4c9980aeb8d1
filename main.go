package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

func main() {
	config := LoadConfig()

	db, err := OpenDB(config.Storage.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := os.MkdirAll(config.Storage.Path, 0755); err != nil {
		log.Fatal("Failed to create storage directory:", err)
	}

	users := NewUserStore(db)
	meta := NewMetadataStore(db)
	blobs := NewStorage(config.Storage.Path)
	sessions := NewSessionStore(config.Session.MaxSessions, config.SessionTTL())

	jobs := NewDispatcher(config.Queue.Size, config.Queue.Workers, nil)
	defer jobs.Close()

	auth := NewAuthService(users, sessions, jobs)
	files := NewFileService(meta, blobs, jobs)
	api := NewAPI(auth, files, users, meta, sessions, db)

	router := gin.Default()
	api.RegisterRoutes(router)

	log.Printf("Starting server on port %s", config.API.Port)
	if err := router.Run(":" + config.API.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
