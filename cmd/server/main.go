package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/config"
	"github.com/joinboard/join-api/internal/handlers"
	"github.com/joinboard/join-api/internal/middleware"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/services"
	"github.com/joinboard/join-api/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Document store client and repositories
	client := store.New(cfg.StoreBaseURL, cfg.StoreTimeout)
	taskRepo := repository.NewTaskRepository(client)
	contactRepo := repository.NewContactRepository(client)
	userRepo := repository.NewUserRepository(client)

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	contactService := services.NewContactService(contactRepo, taskRepo, userRepo)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("join_session", sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	contactHandler := handlers.NewContactHandler(contactService)
	summaryHandler := handlers.NewSummaryHandler(taskService)
	adminHandler := handlers.NewAdminHandler(taskRepo, contactRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Join API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/guest", authHandler.Guest)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/remembered", authHandler.Remembered)
			auth.GET("/me", middleware.RequireAuth(), authHandler.Me)
		}

		// Dashboard (protected)
		api.GET("/summary", middleware.RequireAuth(), summaryHandler.Summary)
		api.GET("/board", middleware.RequireAuth(), taskHandler.Board)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/move", taskHandler.MoveTask)
			tasks.PATCH("/:id/subtasks/:subId", taskHandler.ToggleSubtask)
		}

		// Contact routes (protected)
		contacts := api.Group("/contacts")
		contacts.Use(middleware.RequireAuth())
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
		}

		// Admin routes
		api.POST("/admin/reset", adminHandler.Reset)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
