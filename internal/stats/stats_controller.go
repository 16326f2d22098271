package stats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/futsapp/pkg/responses"
	"github.com/DhavalSuthar-24/futsapp/pkg/validator"
)

// StatsController handles the stats endpoints.
type StatsController struct {
	store *Store
}

func NewStatsController(store *Store) *StatsController {
	return &StatsController{store: store}
}

// GetStats godoc
// @Summary Get the user's stats
// @Tags stats
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=UserStats}
// @Router /stats [get]
func (sc *StatsController) GetStats(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "", sc.store.Stats())
}

// UpdateStats godoc
// @Summary Patch counters
// @Description Overwrites the supplied counters. played=true extends the streak, anything else resets it
// @Tags stats
// @Accept json
// @Produce json
// @Param body body UpdateRequest true "Counters"
// @Success 200 {object} responses.SuccessResponse{data=UserStats}
// @Failure 400 {object} responses.ErrorResponse
// @Router /stats [patch]
func (sc *StatsController) UpdateStats(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Stats updated", sc.store.UpdateStats(req.Patch, req.Played))
}

// AddRating godoc
// @Summary Add a rating
// @Tags stats
// @Accept json
// @Produce json
// @Param body body RatingRequest true "Rating between 0 and 5"
// @Success 200 {object} responses.SuccessResponse{data=UserStats}
// @Failure 400 {object} responses.ErrorResponse
// @Router /stats/ratings [post]
func (sc *StatsController) AddRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	st, err := sc.store.AddRating(*req.Rating)
	if err != nil {
		if errors.Is(err, ErrInvalidRating) {
			responses.ValidationFailed(c, map[string]string{"rating": err.Error()})
			return
		}
		responses.InternalServerError(c, "")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Rating added", st)
}

// ResetStats godoc
// @Summary Reset all counters
// @Tags stats
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=UserStats}
// @Router /stats [delete]
func (sc *StatsController) ResetStats(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "Stats reset", sc.store.ResetStats())
}
