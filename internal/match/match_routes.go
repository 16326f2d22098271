package match

import (
	"github.com/gin-gonic/gin"

	mw "github.com/DhavalSuthar-24/futsapp/internal/middleware"
	"github.com/DhavalSuthar-24/futsapp/pkg/rmiddleware"
)

// Session is what the match routes need from the user store.
type Session interface {
	mw.Identity
	rmiddleware.PermissionChecker
}

// MatchRoutes sets up all match-related routes.
func MatchRoutes(router *gin.RouterGroup, matchController *MatchController, session Session) {
	matches := router.Group("/matches")
	{
		matches.GET("", matchController.GetMatches)
		matches.GET("/upcoming", matchController.GetUpcoming)
		matches.GET("/:id", matchController.GetMatchByID)
		matches.GET("/:id/route", matchController.GetMatchRoute)
	}

	authRoutes := matches.Group("")
	authRoutes.Use(mw.RequireUser(session))
	{
		authRoutes.POST("", rmiddleware.CreatorMiddleware(session), matchController.CreateMatch)
		authRoutes.DELETE("/:id", rmiddleware.DeleterMiddleware(session), matchController.DeleteMatch)

		authRoutes.POST("/:id/join", matchController.JoinMatch)
		authRoutes.POST("/:id/leave", matchController.LeaveMatch)

		// Creator, organizer or admin
		authRoutes.PUT("/:id", matchController.RequireEditor, matchController.UpdateMatch)
		authRoutes.POST("/:id/complete", matchController.RequireEditor, matchController.CompleteMatch)
		authRoutes.POST("/:id/cancel", matchController.RequireEditor, matchController.CancelMatch)
	}
}
