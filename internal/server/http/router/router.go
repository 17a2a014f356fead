package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/cinema/internal/server/http/handlers"
	"github.com/polkiloo/cinema/internal/server/http/middleware"
)

const maxRequestBody = 1 << 20

// SetupBookings configures the bookings service router.
func SetupBookings(facade handlers.BookingFacade, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	engine := newEngine(health, logger)

	bookingHandler := handlers.NewBookingHandler(facade)
	engine.GET("/", bookingHandler.Manual)

	bookings := engine.Group("/bookings")
	bookings.GET("", bookingHandler.List)
	bookings.POST("/new", bookingHandler.Create)
	bookings.GET("/:user", bookingHandler.ListByUser)

	admin := engine.Group("/admin")
	admin.GET("/bookings/failed", bookingHandler.Failed)
	admin.POST("/sweep", bookingHandler.Sweep)

	return engine
}

// SetupRewards configures the rewards service router.
func SetupRewards(facade handlers.RewardFacade, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	engine := newEngine(health, logger)

	rewardHandler := handlers.NewRewardHandler(facade)
	rewards := engine.Group("/rewards")
	rewards.GET("", rewardHandler.List)
	rewards.POST("/new", rewardHandler.Create)
	rewards.POST("/add_score", rewardHandler.AddScore)
	rewards.GET("/prizes/:user", rewardHandler.Prize)
	rewards.GET("/:user", rewardHandler.Get)

	return engine
}

// SetupUsers configures the users service router.
func SetupUsers(facade handlers.UserFacade, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	engine := newEngine(health, logger)

	userHandler := handlers.NewUserHandler(facade)
	engine.GET("/", userHandler.Manual)

	users := engine.Group("/users")
	users.GET("", userHandler.List)
	users.POST("/new", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.GET("/:id/bookings", userHandler.Bookings)
	users.GET("/:id/suggested", userHandler.Suggested)

	return engine
}

func newEngine(health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TraceContext())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/healthz", handlers.NewHealthHandler(health).Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}
