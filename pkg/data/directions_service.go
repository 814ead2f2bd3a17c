package data

import (
	"context"
	"time"

	"github.com/VinothKuppanna/walkmap/internal/mapview"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/pkg/errors"
	"googlemaps.github.io/maps"
)

type directionsService struct {
	client *maps.Client
}

func (d *directionsService) Route(ctx context.Context, request *def.RouteRequest) *def.RouteResponse {
	response := &def.RouteResponse{}
	mode := request.Mode
	if len(mode) == 0 {
		mode = def.TravelModeWalking
	}
	directionsRequest := maps.DirectionsRequest{
		Origin:      request.Origin.String(),
		Destination: request.Destination.String(),
		Mode:        maps.Mode(mode),
	}
	routes, _, err := d.client.Directions(ctx, &directionsRequest)
	if err != nil {
		response.Status = statusOf(err)
		response.Error = errors.Wrap(err, "DirectionsService.Route")
		return response
	}
	if len(routes) == 0 {
		response.Status = def.StatusZeroResults
		return response
	}
	result := &def.RouteResult{Routes: make([]*def.Route, 0, len(routes))}
	for i := range routes {
		route, err := mapRoute(&routes[i])
		if err != nil {
			response.Status = def.StatusUnknownError
			response.Error = errors.Wrap(err, "DirectionsService.Route")
			return response
		}
		result.Routes = append(result.Routes, route)
	}
	response.Status = def.StatusOK
	response.Result = result
	return response
}

func mapRoute(r *maps.Route) (*def.Route, error) {
	route := &def.Route{
		Summary:  r.Summary,
		Polyline: r.OverviewPolyline.Points,
		Warnings: r.Warnings,
	}
	if len(r.OverviewPolyline.Points) > 0 {
		points, err := r.OverviewPolyline.Decode()
		if err != nil {
			return nil, errors.Wrap(err, "decode polyline")
		}
		route.Path = make([]def.Coordinate, 0, len(points))
		for _, p := range points {
			route.Path = append(route.Path, fromLatLng(p))
		}
	}
	for _, l := range r.Legs {
		if l == nil {
			continue
		}
		route.Legs = append(route.Legs, mapLeg(l))
	}
	return route, nil
}

func mapLeg(l *maps.Leg) *def.Leg {
	leg := &def.Leg{
		StartLocation: fromLatLng(l.StartLocation),
		EndLocation:   fromLatLng(l.EndLocation),
		StartAddress:  l.StartAddress,
		EndAddress:    l.EndAddress,
	}
	if len(l.Distance.HumanReadable) > 0 || l.Distance.Meters > 0 {
		leg.Distance = &def.Distance{Text: l.Distance.HumanReadable, Meters: l.Distance.Meters}
	}
	// the client keeps only the numeric duration; a zero duration next to a
	// distance is a real, very short leg
	if l.Duration > 0 || leg.Distance != nil {
		leg.Duration = &def.Duration{Text: mapview.FormatDuration(l.Duration), Seconds: int64(l.Duration / time.Second)}
	}
	return leg
}

func NewDirectionsService(client *maps.Client) def.RouteProvider {
	return &directionsService{client}
}
