package match

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/futsapp/internal/models"
	"github.com/DhavalSuthar-24/futsapp/internal/routing"
	"github.com/DhavalSuthar-24/futsapp/internal/stats"
	"github.com/DhavalSuthar-24/futsapp/internal/user"
	"github.com/DhavalSuthar-24/futsapp/internal/venue"
)

type stubLocator struct {
	at  models.Coordinates
	err error
}

func (l stubLocator) Locate(context.Context, string) (models.Coordinates, error) {
	return l.at, l.err
}

type failingResolver struct{}

func (failingResolver) Resolve(_ context.Context, start, end models.Coordinates) routing.RouteResponse {
	return routing.RouteResponse{Route: routing.FallbackRoute(start, end), Fallback: true}
}

type harness struct {
	router *gin.Engine
	users  *user.Store
	store  *Store
	stats  *stats.Store
}

func newHarness(t *testing.T, locator VenueLocator) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := clockwork.NewFakeClockAt(testNow)
	users := user.NewStore(clock, nil, nil)
	store := NewStore(users, WithClock(clock), WithLocation(testNow.Location()))
	statsStore := stats.NewStore(clock, nil, nil, nil)
	registry, err := venue.LoadRegistry("")
	require.NoError(t, err)

	mc := NewMatchController(store, statsStore, registry, locator, failingResolver{}, clock)
	r := gin.New()
	MatchRoutes(r.Group("/api"), mc, users)
	return &harness{router: r, users: users, store: store, stats: statsStore}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

const createBody = `{"date":"2024-04-20","time":"19:00","location":"Zuidhaghe","max_players":2}`

func TestCreateMatch_Permissions(t *testing.T) {
	h := newHarness(t, stubLocator{})

	rec := h.do(http.MethodPost, "/api/matches", createBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	h.users.SignIn()
	rec = h.do(http.MethodPost, "/api/matches", createBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	h.users.UpdateUserRole(user.RoleOrganizer)
	rec = h.do(http.MethodPost, "/api/matches", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var view MatchView
	decodeData(t, rec, &view)
	assert.Equal(t, []string{user.DemoUserID}, view.Players)
	assert.True(t, view.CanEdit)
	assert.True(t, view.Joined)
	assert.Equal(t, "images/zuidhaghe.webp", view.Image)
	require.NotNil(t, view.Venue)
	assert.Equal(t, "zuidhaghe", view.Venue.ID)
}

func TestCreateMatch_ValidationErrors(t *testing.T) {
	h := newHarness(t, stubLocator{})
	h.users.SignIn()
	h.users.UpdateUserRole(user.RoleAdmin)

	rec := h.do(http.MethodPost, "/api/matches", `{"date":"","time":"19:00","location":"Zuidhaghe","max_players":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Date is required", body.Errors["date"])
	assert.Equal(t, "Maximum players must be at least 2", body.Errors["max_players"])

	rec = h.do(http.MethodPost, "/api/matches", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoin_CapacityConflict(t *testing.T) {
	h := newHarness(t, stubLocator{})
	m, err := h.store.Create(CreateMatchData{Date: "2024-04-20", Time: "19:00", Location: "Zuidhaghe", MaxPlayers: 2}, "A")
	require.NoError(t, err)
	_, err = h.store.Join(m.ID, "B")
	require.NoError(t, err)

	h.users.SignIn()
	rec := h.do(http.MethodPost, "/api/matches/"+m.ID+"/join", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/matches/missing/join", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinLeave(t *testing.T) {
	h := newHarness(t, stubLocator{})
	s := sampleMatch("a")
	s.CreatedBy = "9"
	s.Players = []string{"9"}
	h.store.AddMatch(s)
	h.users.SignIn()

	rec := h.do(http.MethodPost, "/api/matches/a/join", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view MatchView
	decodeData(t, rec, &view)
	assert.Equal(t, []string{"9", user.DemoUserID}, view.Players)
	assert.True(t, view.Joined)
	assert.False(t, view.CanEdit)

	rec = h.do(http.MethodPost, "/api/matches/a/join", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/matches/a/leave", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodPost, "/api/matches/a/leave", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got, _ := h.store.Get("a")
	assert.Equal(t, []string{"9"}, got.Players)
}

func TestCompleteMatch_RecordsStats(t *testing.T) {
	h := newHarness(t, stubLocator{})
	h.store.AddMatch(sampleMatch("a"))
	h.users.SignIn()

	rec := h.do(http.MethodPost, "/api/matches/a/complete", `{"goals":2,"assists":1,"is_mvp":true,"rating":4}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CompleteResponse
	decodeData(t, rec, &resp)
	assert.True(t, resp.Recorded)
	assert.Equal(t, StatusCompleted, resp.Match.Status)

	st := h.stats.Stats()
	assert.Equal(t, 2, st.Goals)
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 1, st.MVPCount)
	assert.Equal(t, 4.0, st.Rating)

	rec = h.do(http.MethodPost, "/api/matches/a/complete", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompleteMatch_RequiresEditor(t *testing.T) {
	h := newHarness(t, stubLocator{})
	s := sampleMatch("a")
	s.CreatedBy = "9"
	h.store.AddMatch(s)
	h.users.SignIn()

	rec := h.do(http.MethodPost, "/api/matches/a/complete", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = h.do(http.MethodPost, "/api/matches/a/cancel", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	h.users.UpdateUserRole(user.RoleOrganizer)
	rec = h.do(http.MethodPost, "/api/matches/a/cancel", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/api/matches/missing/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMatch(t *testing.T) {
	h := newHarness(t, stubLocator{})
	h.store.AddMatch(sampleMatch("a"))
	h.users.SignIn()

	body := `{"date":"2024-04-21","time":"20:15:00","location":"Zuidhaghe","max_players":12,"players":["1","5"],"created_by":"1","status":"scheduled"}`
	rec := h.do(http.MethodPut, "/api/matches/a", body)
	require.Equal(t, http.StatusOK, rec.Code)
	got, _ := h.store.Get("a")
	assert.Equal(t, "20:15", got.Time)
	assert.Equal(t, []string{"1", "5"}, got.Players)
	assert.Equal(t, testNow, got.CreatedAt)

	body = `{"date":"2024-04-21","time":"20:15","location":"Zuidhaghe","max_players":12,"players":["1"],"created_by":"2","status":"scheduled"}`
	rec = h.do(http.MethodPut, "/api/matches/a", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateMatch_TrimsFields(t *testing.T) {
	h := newHarness(t, stubLocator{})
	h.store.AddMatch(sampleMatch("a"))
	h.users.SignIn()

	body := `{"date":" 2024-05-01 ","time":" 18:00","location":"  Zuidhaghe ","max_players":10,"players":["1"],"created_by":"1","status":"scheduled"}`
	rec := h.do(http.MethodPut, "/api/matches/a", body)
	require.Equal(t, http.StatusOK, rec.Code)

	got, _ := h.store.Get("a")
	assert.Equal(t, "2024-05-01", got.Date)
	assert.Equal(t, "18:00", got.Time)
	assert.Equal(t, "Zuidhaghe", got.Location)

	upcoming := h.store.Upcoming(testNow, 0)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "a", upcoming[0].ID)
}

func TestDeleteMatch_AdminOnly(t *testing.T) {
	h := newHarness(t, stubLocator{})
	h.store.AddMatch(sampleMatch("a"))
	h.users.SignIn()
	h.users.UpdateUserRole(user.RoleOrganizer)

	rec := h.do(http.MethodDelete, "/api/matches/a", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	h.users.UpdateUserRole(user.RoleAdmin)
	rec = h.do(http.MethodDelete, "/api/matches/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodDelete, "/api/matches/a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMatches_PaginationAndFilter(t *testing.T) {
	h := newHarness(t, stubLocator{})
	for _, id := range []string{"a", "b", "c"} {
		h.store.AddMatch(sampleMatch(id))
	}
	_, err := h.store.Cancel("b")
	require.NoError(t, err)

	rec := h.do(http.MethodGet, "/api/matches?page=2&page_size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data       []MatchView `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
			TotalPages int   `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "c", page.Data[0].ID)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	rec = h.do(http.MethodGet, "/api/matches?status=scheduled", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)

	rec = h.do(http.MethodGet, "/api/matches?status=live", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUpcoming(t *testing.T) {
	h := newHarness(t, stubLocator{})
	old := sampleMatch("old")
	old.Date = "2024-01-01"
	h.store.AddMatch(old)
	h.store.AddMatch(sampleMatch("next"))

	rec := h.do(http.MethodGet, "/api/matches/upcoming", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []MatchView
	decodeData(t, rec, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "next", views[0].ID)
}

func TestGetMatchRoute(t *testing.T) {
	venueAt := models.Coordinates{Latitude: 52.0434, Longitude: 4.2546}
	h := newHarness(t, stubLocator{at: venueAt})
	h.store.AddMatch(sampleMatch("a"))

	rec := h.do(http.MethodGet, "/api/matches/a/route?lat=52.07&lng=4.30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp routing.RouteResponse
	decodeData(t, rec, &resp)
	assert.True(t, resp.Fallback)
	assert.Equal(t, []models.Coordinates{{Latitude: 52.07, Longitude: 4.30}, venueAt}, resp.Coordinates)
	assert.Zero(t, resp.Duration)
	assert.Zero(t, resp.Distance)

	rec = h.do(http.MethodGet, "/api/matches/a/route?lat=abc&lng=4.30", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/api/matches/missing/route?lat=52.07&lng=4.30", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMatchRoute_VenueNotLocated(t *testing.T) {
	h := newHarness(t, stubLocator{err: errors.New("address not found")})
	h.store.AddMatch(sampleMatch("a"))

	rec := h.do(http.MethodGet, "/api/matches/a/route?lat=52.07&lng=4.30", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
