package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/smartsplit/smartsplit-backend/config"
	"github.com/smartsplit/smartsplit-backend/handlers"
	"github.com/smartsplit/smartsplit-backend/middleware"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config             *config.Config
	JWTValidator       middleware.Validator
	GroupHandler       *handlers.GroupHandler
	ExpenseHandler     *handlers.ExpenseHandler
	ConsumptionHandler *handlers.ConsumptionHandler
	BalanceHandler     *handlers.BalanceHandler
	EventHandler       *handlers.EventHandler
	HealthHandler      *handlers.HealthHandler
	Logger             *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes (no auth)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Versioned API Group (v1)
	v1 := r.Group("/v1")
	{
		authMiddleware := middleware.AuthMiddleware(deps.JWTValidator)
		authRoutes := v1.Group("")
		authRoutes.Use(authMiddleware)
		{
			// Group Routes
			groupRoutes := authRoutes.Group("/groups")
			{
				groupRoutes.POST("", deps.GroupHandler.CreateGroupHandler)
				groupRoutes.GET("", deps.GroupHandler.ListGroupsHandler)
				groupRoutes.POST("/join", deps.GroupHandler.JoinGroupHandler)
				groupRoutes.GET("/:id", deps.GroupHandler.GetGroupHandler)
				groupRoutes.PUT("/:id", deps.GroupHandler.UpdateGroupHandler)
				groupRoutes.DELETE("/:id", deps.GroupHandler.DeleteGroupHandler)

				// Member Routes
				memberRoutes := groupRoutes.Group("/:id/members")
				{
					memberRoutes.GET("", deps.GroupHandler.ListMembersHandler)
					memberRoutes.DELETE("/:userID", deps.GroupHandler.RemoveMemberHandler)
				}

				// Expense Routes
				expenseRoutes := groupRoutes.Group("/:id/expenses")
				{
					expenseRoutes.POST("", deps.ExpenseHandler.CreateExpenseHandler)
					expenseRoutes.GET("", deps.ExpenseHandler.ListExpensesHandler)
					expenseRoutes.GET("/:expenseID", deps.ExpenseHandler.GetExpenseHandler)
					expenseRoutes.DELETE("/:expenseID", deps.ExpenseHandler.DeleteExpenseHandler)
				}

				// Consumption Routes
				consumptionRoutes := groupRoutes.Group("/:id/consumptions")
				{
					consumptionRoutes.POST("", deps.ConsumptionHandler.AddConsumptionHandler)
					consumptionRoutes.GET("", deps.ConsumptionHandler.ListConsumptionsHandler)
					consumptionRoutes.GET("/summary", deps.ConsumptionHandler.GetSummaryHandler)
					consumptionRoutes.POST("/settle", deps.ConsumptionHandler.SettleConsumptionsHandler)
					consumptionRoutes.PUT("/:consumptionID", deps.ConsumptionHandler.UpdateConsumptionHandler)
					consumptionRoutes.DELETE("/:consumptionID", deps.ConsumptionHandler.DeleteConsumptionHandler)
				}

				// Balance and Settlement Routes
				groupRoutes.GET("/:id/balances", deps.BalanceHandler.GetBalancesHandler)

				// Event Stream (SSE)
				groupRoutes.GET("/:id/events",
					middleware.SSEMiddleware(middleware.SSEConfig{
						AllowedOrigins: deps.Config.Server.AllowedOrigins,
					}),
					deps.EventHandler.StreamEventsHandler)
			}
		}
	}

	return r
}
