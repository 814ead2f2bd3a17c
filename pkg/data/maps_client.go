package data

import (
	"errors"
	"strings"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"googlemaps.github.io/maps"
)

var ErrNotConfigured = errors.New("maps api key is not configured")

// NewMapsClient builds the shared web service client. baseURL and rateLimit
// are optional.
func NewMapsClient(apiKey, baseURL string, rateLimit int) (*maps.Client, error) {
	if len(strings.TrimSpace(apiKey)) == 0 {
		return nil, ErrNotConfigured
	}
	options := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if len(baseURL) > 0 {
		options = append(options, maps.WithBaseURL(baseURL))
	}
	if rateLimit > 0 {
		options = append(options, maps.WithRateLimit(rateLimit))
	}
	return maps.NewClient(options...)
}

func toLatLng(c def.Coordinate) *maps.LatLng {
	return &maps.LatLng{Lat: c.Lat, Lng: c.Lng}
}

func fromLatLng(l maps.LatLng) def.Coordinate {
	return def.Coordinate{Lat: l.Lat, Lng: l.Lng}
}

// statusOf recovers the service status from a client error. The client
// reports non-OK answers as "maps: STATUS - message".
func statusOf(err error) def.RouteStatus {
	if err == nil {
		return def.StatusOK
	}
	text := err.Error()
	if !strings.HasPrefix(text, "maps: ") {
		return def.StatusUnknownError
	}
	text = strings.TrimPrefix(text, "maps: ")
	if i := strings.Index(text, " - "); i >= 0 {
		text = text[:i]
	}
	return def.ParseRouteStatus(strings.TrimSpace(text))
}
