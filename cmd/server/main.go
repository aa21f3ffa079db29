package main

import (
	_ "taskboard/docs"
	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/server"
)

// @title           Task Board API
// @version         1.0
// @description     API for a shared task board with optimistic concurrency, audit logging, and real-time change notifications.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logging.Init(cfg.LogFile)

	s, err := server.Init(cfg)
	if err != nil {
		logging.L().Fatalf("Server initialization failed: %v", err)
	}

	s.Run()
}
