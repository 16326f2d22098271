package stats

import (
	"github.com/gin-gonic/gin"

	mw "github.com/DhavalSuthar-24/futsapp/internal/middleware"
)

// StatsRoutes sets up the stats routes. Reads are open, writes need a signed-in user.
func StatsRoutes(router *gin.RouterGroup, store *Store, identity mw.Identity) {
	statsController := NewStatsController(store)

	group := router.Group("/stats")
	group.GET("", statsController.GetStats)

	authRoutes := group.Group("")
	authRoutes.Use(mw.RequireUser(identity))
	{
		authRoutes.PATCH("", statsController.UpdateStats)
		authRoutes.POST("/ratings", statsController.AddRating)
		authRoutes.DELETE("", statsController.ResetStats)
	}
}
