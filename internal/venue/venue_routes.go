package venue

import "github.com/gin-gonic/gin"

// VenueRoutes sets up the read-only venue routes.
func VenueRoutes(router *gin.RouterGroup, registry *Registry) {
	venueController := NewVenueController(registry)

	venueRoutes := router.Group("/venues")
	{
		venueRoutes.GET("", venueController.GetAllVenues)
		venueRoutes.GET("/:id", venueController.GetVenueByID)
	}
}
