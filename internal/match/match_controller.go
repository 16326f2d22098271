package match

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/common"
	"github.com/DhavalSuthar-24/futsapp/internal/models"
	"github.com/DhavalSuthar-24/futsapp/internal/routing"
	"github.com/DhavalSuthar-24/futsapp/internal/stats"
	"github.com/DhavalSuthar-24/futsapp/internal/venue"
	"github.com/DhavalSuthar-24/futsapp/pkg/responses"
	"github.com/DhavalSuthar-24/futsapp/pkg/validator"
)

// StatsRecorder receives the user's share of a completed match.
type StatsRecorder interface {
	RecordGame(result stats.GameResult) (stats.UserStats, error)
}

// VenueCatalog is the read side of the venue registry.
type VenueCatalog interface {
	ByName(name string) (venue.Venue, bool)
	ImageFor(name string) string
}

// VenueLocator resolves a venue name to coordinates.
type VenueLocator interface {
	Locate(ctx context.Context, name string) (models.Coordinates, error)
}

// MatchController handles match-related HTTP requests
type MatchController struct {
	store    *Store
	stats    StatsRecorder
	venues   VenueCatalog
	locator  VenueLocator
	resolver routing.Resolver
	clock    clockwork.Clock
}

// NewMatchController creates a new match controller
func NewMatchController(store *Store, statsRecorder StatsRecorder, venues VenueCatalog, locator VenueLocator, resolver routing.Resolver, clock clockwork.Clock) *MatchController {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MatchController{
		store:    store,
		stats:    statsRecorder,
		venues:   venues,
		locator:  locator,
		resolver: resolver,
		clock:    clock,
	}
}

// --- Helpers ---

func (mc *MatchController) view(m Match, userID string) MatchView {
	v := MatchView{
		Match:   m,
		CanEdit: mc.store.CanEditMatch(m.ID),
		Joined:  userID != "" && m.HasPlayer(userID),
	}
	if mc.venues != nil {
		v.Image = mc.venues.ImageFor(m.Location)
		if ven, ok := mc.venues.ByName(m.Location); ok {
			v.Venue = &ven
		}
	}
	return v
}

func (mc *MatchController) currentUserID() string {
	u, ok := mc.store.users.CurrentUser()
	if !ok {
		return ""
	}
	return u.ID
}

// writeError maps store errors to responses.
func writeError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		responses.ValidationFailed(c, ve.Errors)
	case errors.Is(err, ErrMatchNotFound):
		responses.NotFound(c, "Match")
	case errors.Is(err, ErrMatchFull),
		errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrMatchClosed),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidUpdate):
		responses.Conflict(c, err.Error())
	default:
		log.Error().Err(err).Msg("Match operation failed")
		responses.InternalServerError(c, "")
	}
}

// RequireEditor aborts unless the current user may edit the match in the :id path parameter.
func (mc *MatchController) RequireEditor(c *gin.Context) {
	id := c.Param("id")
	if _, err := mc.store.Get(id); err != nil {
		writeError(c, err)
		return
	}
	if !mc.store.CanEditMatch(id) {
		responses.Forbidden(c, "You can't edit this match")
		return
	}
	c.Next()
}

// GetMatches godoc
// @Summary List matches
// @Tags matches
// @Produce json
// @Param status query string false "scheduled, completed or cancelled"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} responses.PaginatedResponse{data=[]MatchView}
// @Failure 400 {object} responses.ErrorResponse
// @Router /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	status := Status(c.Query("status"))
	switch status {
	case "", StatusScheduled, StatusCompleted, StatusCancelled:
	default:
		responses.ValidationFailed(c, map[string]string{"status": "status must be one of: scheduled completed cancelled"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		responses.BadRequest(c, "Invalid page")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		responses.BadRequest(c, "Invalid page_size")
		return
	}

	all := mc.store.List(status)
	from := (page - 1) * pageSize
	if from > len(all) {
		from = len(all)
	}
	to := from + pageSize
	if to > len(all) {
		to = len(all)
	}

	userID := mc.currentUserID()
	views := make([]MatchView, 0, to-from)
	for _, m := range all[from:to] {
		views = append(views, mc.view(m, userID))
	}
	responses.SendPaginated(c, http.StatusOK, "Matches retrieved successfully", views, int64(len(all)), page, pageSize)
}

// GetUpcoming godoc
// @Summary Upcoming matches
// @Description Scheduled matches that have not started yet, soonest first
// @Tags matches
// @Produce json
// @Param limit query int false "Maximum number of matches (default: 3)"
// @Success 200 {object} responses.SuccessResponse{data=[]MatchView}
// @Router /matches/upcoming [get]
func (mc *MatchController) GetUpcoming(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultUpcomingLimit)))
	if err != nil || limit < 1 {
		responses.BadRequest(c, "Invalid limit")
		return
	}
	userID := mc.currentUserID()
	upcoming := mc.store.Upcoming(mc.clock.Now(), limit)
	views := make([]MatchView, 0, len(upcoming))
	for _, m := range upcoming {
		views = append(views, mc.view(m, userID))
	}
	responses.SendSuccess(c, http.StatusOK, "", views)
}

// GetMatchByID godoc
// @Summary Get match by ID
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchView}
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	m, err := mc.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", mc.view(m, mc.currentUserID()))
}

// CreateMatch godoc
// @Summary Create a match
// @Description The creator joins the new match as its first player
// @Tags matches
// @Accept json
// @Produce json
// @Param match body CreateMatchData true "Match details"
// @Success 201 {object} responses.SuccessResponse{data=MatchView}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var data CreateMatchData
	if err := c.ShouldBindJSON(&data); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	m, err := mc.store.Create(data, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Match created successfully", mc.view(m, userID))
}

// UpdateMatch godoc
// @Summary Replace a match
// @Description Wholesale replacement. The creator can't change and a finished match can't be reopened
// @Tags matches
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param match body UpdateMatchRequest true "Replacement"
// @Success 200 {object} responses.SuccessResponse{data=MatchView}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /matches/{id} [put]
func (mc *MatchController) UpdateMatch(c *gin.Context) {
	id := c.Param("id")
	var req UpdateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	existing, err := mc.store.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	data := trimData(CreateMatchData{Date: req.Date, Time: req.Time, Location: req.Location, MaxPlayers: req.MaxPlayers})
	if errs := ValidateCreate(data); len(errs) > 0 {
		responses.ValidationFailed(c, errs)
		return
	}
	t, _ := NormalizeTime(data.Time)

	players := req.Players
	if players == nil {
		players = []string{}
	}
	replacement := Match{
		ID:         id,
		Date:       data.Date,
		Time:       t,
		Location:   data.Location,
		MaxPlayers: req.MaxPlayers,
		Players:    players,
		CreatedBy:  req.CreatedBy,
		CreatedAt:  existing.CreatedAt,
		Status:     req.Status,
		Goals:      req.Goals,
		Assists:    req.Assists,
		IsMVP:      req.IsMVP,
		Rating:     req.Rating,
	}
	if err := mc.store.UpdateMatch(id, replacement); err != nil {
		writeError(c, err)
		return
	}

	updated, err := mc.store.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match updated successfully", mc.view(updated, mc.currentUserID()))
}

// DeleteMatch godoc
// @Summary Delete a match
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id} [delete]
func (mc *MatchController) DeleteMatch(c *gin.Context) {
	if err := mc.store.DeleteMatch(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match deleted successfully", nil)
}

// JoinMatch godoc
// @Summary Join a match
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchView}
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Full, already joined or closed"
// @Router /matches/{id}/join [post]
func (mc *MatchController) JoinMatch(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	m, err := mc.store.Join(c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Joined match", mc.view(m, userID))
}

// LeaveMatch godoc
// @Summary Leave a match
// @Description Leaving a match the user is not in changes nothing
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchView}
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /matches/{id}/leave [post]
func (mc *MatchController) LeaveMatch(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	m, err := mc.store.Leave(c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Left match", mc.view(m, userID))
}

// CompleteMatch godoc
// @Summary Complete a match
// @Description Marks a scheduled match completed. When the user played, the result is added to their stats
// @Tags matches
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param result body Result false "Post-match result"
// @Success 200 {object} responses.SuccessResponse{data=CompleteResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /matches/{id}/complete [post]
func (mc *MatchController) CompleteMatch(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var result Result
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&result); err != nil {
			responses.ValidationFailed(c, validator.ParseError(err))
			return
		}
	}

	m, err := mc.store.Complete(c.Param("id"), result)
	if err != nil {
		writeError(c, err)
		return
	}

	recorded := false
	if mc.stats != nil && m.HasPlayer(userID) {
		game := stats.GameResult{Rating: result.Rating}
		if result.Goals != nil {
			game.Goals = *result.Goals
		}
		if result.Assists != nil {
			game.Assists = *result.Assists
		}
		if result.IsMVP != nil {
			game.MVP = *result.IsMVP
		}
		if _, err := mc.stats.RecordGame(game); err != nil {
			log.Warn().Err(err).Str("match_id", m.ID).Msg("Failed to record game stats")
		} else {
			recorded = true
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Match completed", CompleteResponse{Match: m, Recorded: recorded})
}

// CancelMatch godoc
// @Summary Cancel a match
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchView}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /matches/{id}/cancel [post]
func (mc *MatchController) CancelMatch(c *gin.Context) {
	m, err := mc.store.Cancel(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match cancelled", mc.view(m, mc.currentUserID()))
}

// GetMatchRoute godoc
// @Summary Route to the match venue
// @Description Driving route from the given position to the venue. Falls back to a straight line (fallback=true) when the directions service fails
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Param lat query number true "Current latitude"
// @Param lng query number true "Current longitude"
// @Success 200 {object} responses.SuccessResponse{data=routing.RouteResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse "Venue could not be located"
// @Router /matches/{id}/route [get]
func (mc *MatchController) GetMatchRoute(c *gin.Context) {
	from, err := models.ParseCoordinates(c.Query("lat") + "," + c.Query("lng"))
	if err != nil {
		responses.ValidationFailed(c, map[string]string{"position": err.Error()})
		return
	}

	m, err := mc.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	to, err := mc.locator.Locate(c.Request.Context(), m.Location)
	if err != nil {
		if c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		responses.Unprocessable(c, "Could not locate the venue: "+err.Error())
		return
	}

	routing.RespondWithRoute(c, mc.resolver, from, to)
}
