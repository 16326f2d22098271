package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/DhavalSuthar-24/futsapp/config"
	"github.com/DhavalSuthar-24/futsapp/internal/events"
	"github.com/DhavalSuthar-24/futsapp/internal/match"
	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
	"github.com/DhavalSuthar-24/futsapp/internal/middleware"
	"github.com/DhavalSuthar-24/futsapp/internal/routing"
	"github.com/DhavalSuthar-24/futsapp/internal/stats"
	"github.com/DhavalSuthar-24/futsapp/internal/user"
	"github.com/DhavalSuthar-24/futsapp/internal/venue"
	"github.com/DhavalSuthar-24/futsapp/pkg/validator"
)

// Dependencies is everything the HTTP layer is built from.
type Dependencies struct {
	Users    *user.Store
	Matches  *match.MatchController
	Stats    *stats.Store
	Venues   *venue.Registry
	Resolver routing.Resolver
	Hub      *events.Hub
	Metrics  *metrics.Metrics
}

func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.SetupBinding()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// API routes
	api := r.Group("/api")
	user.UserRoutes(api, deps.Users)
	match.MatchRoutes(api, deps.Matches, deps.Users)
	stats.StatsRoutes(api, deps.Stats, deps.Users)
	venue.VenueRoutes(api, deps.Venues)
	routing.RoutingRoutes(api, deps.Resolver)
	if deps.Hub != nil {
		api.GET("/events", deps.Hub.ServeWS)
	}

	return r
}
