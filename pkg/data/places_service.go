package data

import (
	"context"
	"strings"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"googlemaps.github.io/maps"
)

const autocompleteBiasRadius = 50_000

var ErrPlaceNotFound = errors.New("place not found")

type placesService struct {
	client *maps.Client
}

func (p *placesService) Autocomplete(ctx context.Context, request *def.AutocompleteRequest) *def.AutocompleteResponse {
	response := &def.AutocompleteResponse{Predictions: make([]*def.Prediction, 0)}
	if len(strings.TrimSpace(request.Input)) == 0 {
		return response
	}
	autocompleteRequest := maps.PlaceAutocompleteRequest{
		Input:        request.Input,
		SessionToken: sessionToken(request.SessionToken),
	}
	if request.Bias != nil {
		autocompleteRequest.Location = toLatLng(*request.Bias)
		autocompleteRequest.Radius = autocompleteBiasRadius
	}
	result, err := p.client.PlaceAutocomplete(ctx, &autocompleteRequest)
	if err != nil {
		if statusOf(err) == def.StatusZeroResults {
			return response
		}
		response.Error = errors.Wrap(err, "PlacesService.Autocomplete")
		return response
	}
	for _, prediction := range result.Predictions {
		response.Predictions = append(response.Predictions, &def.Prediction{
			PlaceID:     prediction.PlaceID,
			Description: prediction.Description,
		})
	}
	return response
}

// Resolve turns a chosen prediction into coordinates. A place id goes
// through place details, a bare address through geocoding.
func (p *placesService) Resolve(ctx context.Context, request *def.ResolveRequest) *def.ResolveResponse {
	if len(request.PlaceID) > 0 {
		return p.details(ctx, request)
	}
	if len(strings.TrimSpace(request.Address)) > 0 {
		return p.geocode(ctx, request)
	}
	return &def.ResolveResponse{Error: errors.Wrap(ErrPlaceNotFound, "PlacesService.Resolve")}
}

func (p *placesService) details(ctx context.Context, request *def.ResolveRequest) *def.ResolveResponse {
	response := &def.ResolveResponse{}
	detailsRequest := maps.PlaceDetailsRequest{
		PlaceID:      request.PlaceID,
		Fields:       []maps.PlaceDetailsFieldMask{"place_id", "formatted_address", "geometry"},
		SessionToken: sessionToken(request.SessionToken),
	}
	result, err := p.client.PlaceDetails(ctx, &detailsRequest)
	if err != nil {
		response.Error = errors.Wrap(notFound(err), "PlacesService.Resolve")
		return response
	}
	response.Place = &def.Place{
		PlaceID:          result.PlaceID,
		FormattedAddress: result.FormattedAddress,
		Location:         fromLatLng(result.Geometry.Location),
	}
	return response
}

func (p *placesService) geocode(ctx context.Context, request *def.ResolveRequest) *def.ResolveResponse {
	response := &def.ResolveResponse{}
	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: request.Address})
	if err != nil {
		response.Error = errors.Wrap(notFound(err), "PlacesService.Resolve")
		return response
	}
	if len(results) == 0 {
		response.Error = errors.Wrap(ErrPlaceNotFound, "PlacesService.Resolve")
		return response
	}
	first := results[0]
	response.Place = &def.Place{
		PlaceID:          first.PlaceID,
		FormattedAddress: first.FormattedAddress,
		Location:         fromLatLng(first.Geometry.Location),
	}
	return response
}

func notFound(err error) error {
	switch statusOf(err) {
	case def.StatusZeroResults, def.StatusNotFound:
		return ErrPlaceNotFound
	}
	return err
}

// sessionToken groups autocomplete keystrokes and the final lookup into one
// billing session. Tokens that are not UUIDs are ignored.
func sessionToken(raw string) maps.PlaceAutocompleteSessionToken {
	token, err := uuid.Parse(raw)
	if err != nil {
		return maps.PlaceAutocompleteSessionToken{}
	}
	return maps.PlaceAutocompleteSessionToken(token)
}

func NewPlacesService(client *maps.Client) def.PlacesService {
	return &placesService{client}
}
