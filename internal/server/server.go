package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"taskboard/internal/audit"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/logging"
	"taskboard/internal/middleware"
	"taskboard/internal/realtime"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Hub    *realtime.Hub
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	log := logging.L()

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Info("Connected to database")

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// The hub has an explicit lifecycle: built here, closed on shutdown,
	// handed to the gateway rather than looked up from ambient state.
	hub := realtime.NewHub(log)

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	logRepo := repository.NewLogRepository(db)

	// Initialize services
	translator := audit.NewTranslator(userRepo)
	taskService := service.NewTaskService(taskRepo, userRepo, translator, hub, log)

	expiryHours, err := strconv.Atoi(cfg.JWTExpiryHours)
	if err != nil || expiryHours <= 0 {
		expiryHours = 24
	}

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, time.Duration(expiryHours)*time.Hour)
	taskHandler := handler.NewTaskHandler(taskService, taskRepo)
	logHandler := handler.NewLogHandler(logRepo)
	boardHandler := handler.NewBoardHandler(userRepo, taskRepo)
	eventHandler := handler.NewEventHandler(hub)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/board/public/:public_id", boardHandler.GetPublic)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.GetAll)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/smart-assign", taskHandler.SmartAssign)

		// Comment routes
		authorized.POST("/tasks/:id/comments", taskHandler.AddComment)
		authorized.GET("/tasks/:id/comments", taskHandler.GetComments)

		// Attachment routes
		authorized.POST("/tasks/:id/attachments", taskHandler.AddAttachment)
		authorized.GET("/tasks/:id/attachments", taskHandler.GetAttachments)
		authorized.DELETE("/tasks/:id/attachments/:attachment_id", taskHandler.RemoveAttachment)

		// User directory
		authorized.GET("/users", userHandler.GetAll)

		// Audit log
		authorized.GET("/logs", logHandler.Recent)

		// Board sharing
		authorized.POST("/board/share", boardHandler.Share)
		authorized.GET("/board/share", boardHandler.ShareStatus)

		// Change notification stream
		authorized.GET("/events", eventHandler.Stream)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Hub:    hub,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://"+cfg.MigrationsPath, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	log := logging.L()

	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Infof("Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %s", err)
	}

	s.Hub.Close()
	log.Info("Server exited properly")
}
