package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
	"github.com/DhavalSuthar-24/futsapp/internal/models"
)

var (
	start = models.Coordinates{Latitude: 52.0705, Longitude: 4.3007}
	end   = models.Coordinates{Latitude: 52.0434, Longitude: 4.2546}
)

const okBody = `{
  "code": "Ok",
  "routes": [{
    "geometry": {"coordinates": [[4.3007, 52.0705], [4.28, 52.06], [4.2546, 52.0434]]},
    "duration": 612.4,
    "distance": 5321.9
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, m *metrics.Metrics) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 2*time.Second, 1, m)
	c.Base().SetRetryWait(5 * time.Millisecond)
	return c
}

func TestLookup_OK(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(okBody))
	}, nil)

	route, err := c.Lookup(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, "/route/v1/driving/4.3007,52.0705;4.2546,52.0434", gotPath)
	assert.Equal(t, "overview=full&geometries=geojson&alternatives=false", gotQuery)
	require.Len(t, route.Coordinates, 3)
	assert.Equal(t, models.Coordinates{Latitude: 52.06, Longitude: 4.28}, route.Coordinates[1])
	assert.Equal(t, 612.4, route.Duration)
	assert.Equal(t, 5321.9, route.Distance)
}

func TestGetRouteCoordinates_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-OK code", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route","routes":[]}`))
		}},
		{"empty routes", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[]}`))
		}},
		{"missing geometry", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"duration":600,"distance":5000}]}`))
		}},
		{"null coordinates", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"coordinates":null},"duration":600,"distance":5000}]}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}},
		{"client error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler, nil)
			route := c.GetRouteCoordinates(context.Background(), start, end)
			assert.Equal(t, Route{Coordinates: []models.Coordinates{start, end}, Duration: 0, Distance: 0}, route)
		})
	}
}

func TestLookup_TypedErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}, nil)
	_, err := c.Lookup(context.Background(), start, end)
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 1, le.Attempts)
	assert.ErrorIs(t, err, ErrNoRoute)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"coordinates":[[4.3]]}}]}`))
	}, nil)
	_, err = c.Lookup(context.Background(), start, end)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLookup_RetriesServerErrorOnce(t *testing.T) {
	var calls int32
	m := metrics.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(okBody))
	}, m)

	route, err := c.Lookup(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, route.Coordinates, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	expected := `
# HELP futsapp_route_lookups_total Directions lookups by outcome.
# TYPE futsapp_route_lookups_total counter
futsapp_route_lookups_total{outcome="retried"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "futsapp_route_lookups_total"))
}

func TestLookup_GivesUpAfterOneRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	_, err := c.Lookup(context.Background(), start, end)
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Attempts)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLookup_DoesNotRetryClientError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}, nil)

	_, err := c.Lookup(context.Background(), start, end)
	assert.ErrorIs(t, err, ErrNoRoute)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLookup_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okBody))
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Lookup(ctx, start, end)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeocoder(t *testing.T) {
	var gotUA, gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQ = r.URL.Query().Get("q")
		if gotQ == "Nowhere" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"52.3676","lon":"4.9041","display_name":"Amsterdam"}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "futsapp-test/1.0", time.Second, 0)
	c, err := g.Geocode(context.Background(), "Futsal Club Oost, 1091 Amsterdam, Netherlands")
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Latitude: 52.3676, Longitude: 4.9041}, c)
	assert.Equal(t, "futsapp-test/1.0", gotUA)
	assert.Equal(t, "Futsal Club Oost, 1091 Amsterdam, Netherlands", gotQ)

	_, err = g.Geocode(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

type stubResolver struct {
	resp RouteResponse
}

func (s stubResolver) Resolve(context.Context, models.Coordinates, models.Coordinates) RouteResponse {
	return s.resp
}

func TestRoutingRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RoutingRoutes(r.Group("/api"), stubResolver{resp: RouteResponse{Route: FallbackRoute(start, end), Fallback: true}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/routes?from=52.0705,4.3007&to=52.0434,4.2546", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data RouteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Fallback)
	assert.Equal(t, []models.Coordinates{start, end}, body.Data.Coordinates)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/routes?from=abc&to=52.0434,4.2546", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
