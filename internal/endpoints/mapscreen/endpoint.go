package mapscreen

import (
	"context"

	"github.com/VinothKuppanna/walkmap/internal/mapview"
	"github.com/VinothKuppanna/walkmap/internal/middleware/session"
	"github.com/VinothKuppanna/walkmap/pkg/data"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-kit/kit/endpoint"
	"github.com/pkg/errors"
)

var (
	errNoSession  = errors.New("no map session")
	errBadRequest = errors.New("bad request")
)

type endpoints struct {
	state        endpoint.Endpoint
	selectOffice endpoint.Endpoint
	requestRoute endpoint.Endpoint
	click        endpoint.Endpoint
}

func makeEndpoints(places def.PlacesService, options mapview.Options) *endpoints {
	return &endpoints{
		state:        makeStateEndpoint(options),
		selectOffice: makeSelectOfficeEndpoint(places, options),
		requestRoute: makeRequestRouteEndpoint(),
		click:        makeClickEndpoint(),
	}
}

type stateResponse struct {
	canvas mapview.Canvas
}

type selectOfficeRequest struct {
	location     *def.Coordinate
	placeID      string
	address      string
	sessionToken string
}

type selectOfficeResponse struct {
	place  *def.Place
	canvas mapview.Canvas
}

type pointRequest struct {
	point def.Coordinate
}

type routeResponse struct {
	sequence uint64
	house    def.Coordinate
}

func makeStateEndpoint(options mapview.Options) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		screen, ok := session.FromContext(ctx)
		if !ok {
			return nil, errNoSession
		}
		return &stateResponse{canvas: screen.Canvas(options)}, nil
	}
}

// makeSelectOfficeEndpoint accepts raw coordinates or a place chosen from
// autocomplete, which is resolved to coordinates first.
func makeSelectOfficeEndpoint(places def.PlacesService, options mapview.Options) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*selectOfficeRequest)
		screen, ok := session.FromContext(ctx)
		if !ok {
			return nil, errNoSession
		}
		response := &selectOfficeResponse{}
		location := req.location
		if location == nil {
			if places == nil {
				return nil, data.ErrNotConfigured
			}
			resolved := places.Resolve(ctx, &def.ResolveRequest{
				PlaceID:      req.placeID,
				Address:      req.address,
				SessionToken: req.sessionToken,
			})
			if resolved.Error != nil {
				return nil, resolved.Error
			}
			response.place = resolved.Place
			location = &resolved.Place.Location
		}
		if err := screen.SelectOffice(*location); err != nil {
			return nil, err
		}
		response.canvas = screen.Canvas(options)
		return response, nil
	}
}

func makeRequestRouteEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*pointRequest)
		screen, ok := session.FromContext(ctx)
		if !ok {
			return nil, errNoSession
		}
		sequence, err := screen.RequestRoute(req.point)
		if err != nil {
			return nil, err
		}
		return &routeResponse{sequence: sequence, house: req.point}, nil
	}
}

func makeClickEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*pointRequest)
		if err := req.point.Validate(); err != nil {
			return nil, err
		}
		screen, ok := session.FromContext(ctx)
		if !ok {
			return nil, errNoSession
		}
		house, sequence, err := screen.Click(req.point)
		if err != nil {
			return nil, err
		}
		return &routeResponse{sequence: sequence, house: house}, nil
	}
}
