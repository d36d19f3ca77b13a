package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/config"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/loyalty"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/web/handlers"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/web/middleware"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server on top of the loyalty service
func NewServer(svc *loyalty.Service, loyCfg config.LoyaltyConfig) *Server {
	handlers.Setup(svc, loyCfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			// Log error details to console
			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))

	// Custom middleware to inject SQL logs into context
	app.Use(middleware.SQLDebugMiddleware())

	// Setup routes
	setupRoutes(app)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// App exposes the underlying Fiber app (used by tests)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App) {
	// Dashboard
	app.Get("/", handlers.HomePage)

	// Debug endpoint for SQL logs
	app.Get("/api/debug/sql", handlers.GetSQLLogs)
	app.Delete("/api/debug/sql", handlers.ClearSQLLogs)

	// Account management
	accounts := app.Group("/accounts")
	accounts.Get("/", handlers.AccountList)
	accounts.Post("/", handlers.AccountCreate)
	accounts.Get("/:id", handlers.AccountView)
	accounts.Delete("/:id", handlers.AccountDelete)
	accounts.Get("/:id/ledger", handlers.AccountLedger)
	accounts.Post("/:id/events", handlers.AccountEarn)
	accounts.Post("/:id/visits", handlers.AccountVisit)
	accounts.Get("/:id/downgrade-check", handlers.AccountDowngradeCheck)
	accounts.Get("/:id/reconcile", handlers.AccountReconcile)

	// Reward catalog (admin CRUD)
	rewards := app.Group("/rewards")
	rewards.Get("/", handlers.RewardList)
	rewards.Post("/", handlers.RewardCreate)
	rewards.Get("/:id", handlers.RewardView)
	rewards.Put("/:id", handlers.RewardUpdate)
	rewards.Delete("/:id", handlers.RewardDelete)

	// Redemption workflow; approve/reject are admin actions, authorized
	// by the upstream auth layer
	redemptions := app.Group("/redemptions")
	redemptions.Get("/", handlers.RedemptionList)
	redemptions.Post("/", handlers.RedemptionCreate)
	redemptions.Get("/:id", handlers.RedemptionView)
	redemptions.Post("/:id/approve", handlers.RedemptionApprove)
	redemptions.Post("/:id/reject", handlers.RedemptionReject)

	// Referrals
	referrals := app.Group("/referrals")
	referrals.Get("/", handlers.ReferralList)
	referrals.Post("/", handlers.ReferralCreate)

	// Community goals
	goals := app.Group("/goals")
	goals.Get("/", handlers.GoalList)
	goals.Post("/", handlers.GoalCreate)
	goals.Get("/:id", handlers.GoalView)
	goals.Put("/:id", handlers.GoalUpdate)
	goals.Post("/:id/contribute", handlers.GoalContribute)
}
