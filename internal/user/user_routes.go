package user

import (
	"github.com/gin-gonic/gin"

	mw "github.com/DhavalSuthar-24/futsapp/internal/middleware"
)

// UserRoutes sets up the session and current-user routes.
func UserRoutes(router *gin.RouterGroup, store *Store) {
	userController := NewUserController(store)

	session := router.Group("/session")
	{
		session.POST("", userController.SignIn)
		session.DELETE("", userController.SignOut)
	}

	me := router.Group("/me")
	me.Use(mw.RequireUser(store))
	{
		me.GET("", userController.GetMe)
		me.PUT("/role", userController.UpdateRole)
	}
}
