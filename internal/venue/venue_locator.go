package venue

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
	"github.com/DhavalSuthar-24/futsapp/internal/models"
)

// Geocoder resolves a postal address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// Locator resolves venue names to coordinates. Registry coordinates win; otherwise the address
// is geocoded once and remembered.
type Locator struct {
	registry *Registry
	geocoder Geocoder
	metrics  *metrics.Metrics

	mu    sync.Mutex
	cache map[string]models.Coordinates
}

func NewLocator(registry *Registry, geocoder Geocoder, m *metrics.Metrics) *Locator {
	return &Locator{
		registry: registry,
		geocoder: geocoder,
		metrics:  m,
		cache:    make(map[string]models.Coordinates),
	}
}

// Locate returns the coordinates of the venue called name.
func (l *Locator) Locate(ctx context.Context, name string) (models.Coordinates, error) {
	v, ok := l.registry.ByName(name)
	if !ok {
		return models.Coordinates{}, fmt.Errorf("%w: %q", ErrVenueNotFound, name)
	}
	if v.Coordinates != nil {
		return *v.Coordinates, nil
	}

	l.mu.Lock()
	c, cached := l.cache[v.ID]
	l.mu.Unlock()
	if cached {
		return c, nil
	}

	if l.geocoder == nil {
		return models.Coordinates{}, fmt.Errorf("no coordinates for venue %q", v.ID)
	}
	c, err := l.geocoder.Geocode(ctx, v.Address)
	if err != nil {
		l.metrics.Geocode("error")
		log.Warn().Err(err).Str("venue", v.ID).Msg("Failed to geocode venue")
		return models.Coordinates{}, fmt.Errorf("failed to locate venue %q: %w", v.ID, err)
	}
	l.metrics.Geocode(metrics.OutcomeOK)

	l.mu.Lock()
	l.cache[v.ID] = c
	l.mu.Unlock()
	return c, nil
}
