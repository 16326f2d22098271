package venue

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/futsapp/pkg/responses"
)

// VenueController serves the static registry.
type VenueController struct {
	registry *Registry
}

func NewVenueController(registry *Registry) *VenueController {
	return &VenueController{registry: registry}
}

// GetAllVenues godoc
// @Summary List venues
// @Tags venues
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Venue}
// @Router /venues [get]
func (vc *VenueController) GetAllVenues(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "", vc.registry.All())
}

// GetVenueByID godoc
// @Summary Get venue by ID
// @Tags venues
// @Produce json
// @Param id path string true "Venue ID"
// @Success 200 {object} responses.SuccessResponse{data=Venue}
// @Failure 404 {object} responses.ErrorResponse
// @Router /venues/{id} [get]
func (vc *VenueController) GetVenueByID(c *gin.Context) {
	v, ok := vc.registry.ByID(c.Param("id"))
	if !ok {
		responses.NotFound(c, "Venue")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", v)
}
