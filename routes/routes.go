package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "taskhive/controllers"
	"taskhive/middleware"
	"taskhive/services"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, hub *services.SessionHub) {
	authController := controller.NewAuthController(db, hub, logrus.WithField("component", "auth"))

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", authController.Register)
	auth.Post("/login", middleware.LoginRateLimiter(), authController.Login)
	auth.Post("/refresh", authController.RefreshToken)

	// Google OAuth routes
	auth.Get("/google", authController.GoogleOAuth)
	auth.Get("/google/callback", authController.GoogleOAuthCallback)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", authController.Logout)
	protectedAuth.Get("/me", authController.GetCurrentUser)

	logrus.Info("Authentication routes initialized")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, hub *services.SessionHub) {
	listController := controller.NewListController(db, logrus.WithField("component", "lists"))
	participantController := controller.NewParticipantController(db, logrus.WithField("component", "participants"))
	taskController := controller.NewTaskController(db, logrus.WithField("component", "tasks"))
	sessionController := controller.NewSessionController(db, hub, logrus.WithField("component", "session"))

	// WebSocket route for session observation. Registered before the
	// protected group: browser websocket handshakes cannot carry an
	// Authorization header, so the handler authenticates the query token
	// itself and must not sit behind the header middleware.
	app.Get("/api/v1/session/watch", websocket.New(sessionController.HandleSessionWatch))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// List routes
	lists := api.Group("/lists")
	lists.Post("/", listController.CreateList)
	lists.Get("/", listController.GetLists)
	lists.Get("/:id", listController.GetList)
	lists.Put("/:id", listController.RenameList)
	lists.Delete("/:id", listController.DeleteList)

	// Participant routes
	lists.Get("/:id/participants", participantController.GetParticipants)
	lists.Post("/:id/participants", participantController.AddParticipant)
	lists.Put("/:id/participants/:uid", participantController.ChangeParticipantRole)
	lists.Delete("/:id/participants/:uid", participantController.RemoveParticipant)

	// Task routes
	lists.Post("/:id/tasks", taskController.CreateTask)
	lists.Get("/:id/tasks", taskController.GetTasks)
	api.Patch("/tasks/:id", taskController.UpdateTask)
	api.Delete("/tasks/:id", taskController.DeleteTask)

	logrus.Info("API routes initialized")
}

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *services.SessionHub) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db, hub)
	SetupAPIRoutes(app, db, hub)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
