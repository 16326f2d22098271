package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/DhavalSuthar-24/futsapp/internal/models"
)

var ErrAddressNotFound = errors.New("address not found")

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocoder resolves addresses through a Nominatim-compatible search endpoint.
type Geocoder struct {
	base *BaseClient
}

func NewGeocoder(baseURL, userAgent string, timeout time.Duration, maxRetries int) *Geocoder {
	base := NewBaseClient(baseURL, timeout, maxRetries)
	base.SetHeader("User-Agent", userAgent)
	return &Geocoder{base: base}
}

func (g *Geocoder) Base() *BaseClient {
	return g.base
}

// Geocode returns the first match for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	body, _, err := g.base.Get(ctx, "/search?"+q.Encode())
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: %w", address, err)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: %w: %v", address, ErrMalformedResponse, err)
	}
	if len(places) == 0 {
		return models.Coordinates{}, fmt.Errorf("%w: %q", ErrAddressNotFound, address)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: %w: lat %q", address, ErrMalformedResponse, places[0].Lat)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: %w: lon %q", address, ErrMalformedResponse, places[0].Lon)
	}
	c := models.Coordinates{Latitude: lat, Longitude: lng}
	if err := c.Validate(); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: %w", address, err)
	}
	return c, nil
}
