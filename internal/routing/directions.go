package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
	"github.com/DhavalSuthar-24/futsapp/internal/models"
)

var (
	ErrNoRoute           = errors.New("no route found")
	ErrMalformedResponse = errors.New("malformed directions response")
)

// Route is a driving path. Duration is in seconds, Distance in meters.
type Route struct {
	Coordinates []models.Coordinates `json:"coordinates"`
	Duration    float64              `json:"duration"`
	Distance    float64              `json:"distance"`
}

// RouteResponse is what the API returns. Fallback marks the straight-line substitute.
type RouteResponse struct {
	Route
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// FallbackRoute is the straight line from start to end with no duration or distance.
func FallbackRoute(start, end models.Coordinates) Route {
	return Route{
		Coordinates: []models.Coordinates{start, end},
		Duration:    0,
		Distance:    0,
	}
}

// LookupError is returned once every attempt of a lookup has failed.
type LookupError struct {
	Attempts int
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("route lookup failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// Client talks to an OSRM-compatible directions service.
type Client struct {
	base    *BaseClient
	metrics *metrics.Metrics
}

func NewClient(baseURL string, timeout time.Duration, maxRetries int, m *metrics.Metrics) *Client {
	return &Client{
		base:    NewBaseClient(baseURL, timeout, maxRetries),
		metrics: m,
	}
}

// Base exposes the HTTP plumbing, e.g. to shorten the retry wait in tests.
func (c *Client) Base() *BaseClient {
	return c.base
}

func routeEndpoint(start, end models.Coordinates) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return "/route/v1/driving/" +
		f(start.Longitude) + "," + f(start.Latitude) + ";" +
		f(end.Longitude) + "," + f(end.Latitude) +
		"?overview=full&geometries=geojson&alternatives=false"
}

// Lookup asks the service for the driving route from start to end. Any failure is a *LookupError.
func (c *Client) Lookup(ctx context.Context, start, end models.Coordinates) (Route, error) {
	body, attempts, err := c.base.Get(ctx, routeEndpoint(start, end))
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			err = fmt.Errorf("%w: %v", ErrNoRoute, err)
		}
		c.metrics.RouteLookup("error")
		return Route{}, &LookupError{Attempts: attempts, Err: err}
	}

	route, err := decodeRoute(body)
	if err != nil {
		c.metrics.RouteLookup("error")
		return Route{}, &LookupError{Attempts: attempts, Err: err}
	}

	if attempts > 1 {
		c.metrics.RouteLookup(metrics.OutcomeRetried)
	} else {
		c.metrics.RouteLookup(metrics.OutcomeOK)
	}
	return route, nil
}

func decodeRoute(body []byte) (Route, error) {
	var resp osrmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Code != "Ok" {
		return Route{}, fmt.Errorf("%w: code %q %s", ErrNoRoute, resp.Code, resp.Message)
	}
	if len(resp.Routes) == 0 {
		return Route{}, fmt.Errorf("%w: empty routes", ErrNoRoute)
	}

	first := resp.Routes[0]
	if len(first.Geometry.Coordinates) < 2 {
		return Route{}, fmt.Errorf("%w: route geometry has %d points", ErrMalformedResponse, len(first.Geometry.Coordinates))
	}
	coords := make([]models.Coordinates, 0, len(first.Geometry.Coordinates))
	for i, pair := range first.Geometry.Coordinates {
		if len(pair) < 2 {
			return Route{}, fmt.Errorf("%w: point %d has %d values", ErrMalformedResponse, i, len(pair))
		}
		coords = append(coords, models.Coordinates{Latitude: pair[1], Longitude: pair[0]})
	}
	return Route{
		Coordinates: coords,
		Duration:    first.Duration,
		Distance:    first.Distance,
	}, nil
}

// Resolve looks the route up and substitutes the straight line on failure.
func (c *Client) Resolve(ctx context.Context, start, end models.Coordinates) RouteResponse {
	route, err := c.Lookup(ctx, start, end)
	if err == nil {
		return RouteResponse{Route: route}
	}
	log.Warn().Err(err).Msg("Route calculation failed, using straight line")
	c.metrics.RouteLookup(metrics.OutcomeFallback)
	return RouteResponse{
		Route:    FallbackRoute(start, end),
		Fallback: true,
		Reason:   err.Error(),
	}
}

// GetRouteCoordinates never fails: on any error it returns FallbackRoute(start, end).
func (c *Client) GetRouteCoordinates(ctx context.Context, start, end models.Coordinates) Route {
	return c.Resolve(ctx, start, end).Route
}
