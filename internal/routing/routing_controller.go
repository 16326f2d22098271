package routing

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/models"
	"github.com/DhavalSuthar-24/futsapp/pkg/responses"
)

// Resolver produces a route or its straight-line fallback.
type Resolver interface {
	Resolve(ctx context.Context, start, end models.Coordinates) RouteResponse
}

type RoutingController struct {
	resolver Resolver
}

func NewRoutingController(resolver Resolver) *RoutingController {
	return &RoutingController{resolver: resolver}
}

// GetRoute godoc
// @Summary Route between two points
// @Description Driving route from the directions service, or a straight line with fallback=true when it fails
// @Tags routes
// @Produce json
// @Param from query string true "Start as lat,lng"
// @Param to query string true "End as lat,lng"
// @Success 200 {object} responses.SuccessResponse{data=RouteResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Router /routes [get]
func (rc *RoutingController) GetRoute(c *gin.Context) {
	start, err := models.ParseCoordinates(c.Query("from"))
	if err != nil {
		responses.ValidationFailed(c, map[string]string{"from": err.Error()})
		return
	}
	end, err := models.ParseCoordinates(c.Query("to"))
	if err != nil {
		responses.ValidationFailed(c, map[string]string{"to": err.Error()})
		return
	}

	RespondWithRoute(c, rc.resolver, start, end)
}

// RespondWithRoute resolves the route and writes it, unless the client has gone away in the
// meantime, in which case the result is dropped.
func RespondWithRoute(c *gin.Context, resolver Resolver, start, end models.Coordinates) {
	ctx := c.Request.Context()
	resp := resolver.Resolve(ctx, start, end)
	if ctx.Err() != nil {
		log.Debug().Err(ctx.Err()).Msg("Client left before the route was ready, discarding")
		c.Abort()
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", resp)
}

// RoutingRoutes sets up the route lookup endpoint.
func RoutingRoutes(router *gin.RouterGroup, resolver Resolver) {
	routingController := NewRoutingController(resolver)
	router.GET("/routes", routingController.GetRoute)
}
