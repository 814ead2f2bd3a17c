package mapscreen

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/VinothKuppanna/walkmap/internal/common"
	"github.com/VinothKuppanna/walkmap/internal/houses"
	screens "github.com/VinothKuppanna/walkmap/internal/mapscreen"
	"github.com/VinothKuppanna/walkmap/internal/mapview"
	"github.com/VinothKuppanna/walkmap/pkg/data"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	PathState        = "/MapService.State"
	PathSelectOffice = "/MapService.SelectOffice"
	PathRequestRoute = "/MapService.RequestRoute"
	PathClick        = "/MapService.Click"
)

type stateHttpResponse struct {
	Status string         `json:"status"`
	Canvas mapview.Canvas `json:"canvas"`
}

type selectOfficeHttpRequest struct {
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	PlaceID      string   `json:"placeId"`
	Address      string   `json:"address"`
	SessionToken string   `json:"sessionToken"`
}

type selectOfficeHttpResponse struct {
	Status string         `json:"status"`
	Place  *def.Place     `json:"place,omitempty"`
	Canvas mapview.Canvas `json:"canvas"`
}

type routeHttpResponse struct {
	Status   string         `json:"status"`
	Sequence uint64         `json:"sequence"`
	House    def.Coordinate `json:"house"`
}

type handler struct {
	endpoints *endpoints
}

func NewHandler(places def.PlacesService, options mapview.Options) *handler {
	return &handler{makeEndpoints(places, options)}
}

func (h *handler) SetupRouts(router *mux.Router) {
	options := []kithttp.ServerOption{kithttp.ServerErrorEncoder(encodeError)}

	state := kithttp.NewServer(h.endpoints.state, kithttp.NopRequestDecoder, encodeStateResponse, options...)
	selectOffice := kithttp.NewServer(h.endpoints.selectOffice, decodeSelectOfficeRequest, encodeSelectOfficeResponse, options...)
	requestRoute := kithttp.NewServer(h.endpoints.requestRoute, decodePointRequest, encodeRouteResponse, options...)
	click := kithttp.NewServer(h.endpoints.click, decodePointRequest, encodeRouteResponse, options...)

	router.Handle(PathState, state).Methods(http.MethodGet)
	router.Handle(PathSelectOffice, selectOffice).Methods(http.MethodPost)
	router.Handle(PathRequestRoute, requestRoute).Methods(http.MethodPost)
	router.Handle(PathClick, click).Methods(http.MethodPost)
}

func decodeSelectOfficeRequest(_ context.Context, req *http.Request) (interface{}, error) {
	var httpr selectOfficeHttpRequest
	if err := json.NewDecoder(req.Body).Decode(&httpr); err != nil {
		return nil, errors.Wrap(errBadRequest, err.Error())
	}
	request := &selectOfficeRequest{
		placeID:      httpr.PlaceID,
		address:      httpr.Address,
		sessionToken: httpr.SessionToken,
	}
	switch {
	case httpr.Lat != nil && httpr.Lng != nil:
		request.location = &def.Coordinate{Lat: *httpr.Lat, Lng: *httpr.Lng}
	case len(httpr.PlaceID) == 0 && len(httpr.Address) == 0:
		return nil, errors.Wrap(errBadRequest, "lat and lng, placeId or address is required")
	}
	return request, nil
}

func decodePointRequest(_ context.Context, req *http.Request) (interface{}, error) {
	var point *def.Coordinate
	if err := json.NewDecoder(req.Body).Decode(&point); err != nil {
		return nil, errors.Wrap(errBadRequest, err.Error())
	}
	if point == nil {
		return nil, errors.Wrap(errBadRequest, "lat and lng are required")
	}
	return &pointRequest{point: *point}, nil
}

func encodeStateResponse(_ context.Context, resp http.ResponseWriter, response interface{}) error {
	r := response.(*stateResponse)
	return common.RespondWithJSON(resp, http.StatusOK, &stateHttpResponse{
		Status: http.StatusText(http.StatusOK),
		Canvas: r.canvas,
	})
}

func encodeSelectOfficeResponse(_ context.Context, resp http.ResponseWriter, response interface{}) error {
	r := response.(*selectOfficeResponse)
	return common.RespondWithJSON(resp, http.StatusOK, &selectOfficeHttpResponse{
		Status: http.StatusText(http.StatusOK),
		Place:  r.place,
		Canvas: r.canvas,
	})
}

// encodeRouteResponse answers 202: the route itself arrives later through
// the state and notification endpoints.
func encodeRouteResponse(_ context.Context, resp http.ResponseWriter, response interface{}) error {
	r := response.(*routeResponse)
	return common.RespondWithJSON(resp, http.StatusAccepted, &routeHttpResponse{
		Status:   http.StatusText(http.StatusAccepted),
		Sequence: r.sequence,
		House:    r.house,
	})
}

func encodeError(_ context.Context, err error, resp http.ResponseWriter) {
	common.RespondWithError(err, resp, StatusCode(err))
}

// StatusCode maps domain errors onto HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, def.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, screens.ErrNoOffice):
		return http.StatusConflict
	case errors.Is(err, houses.ErrNoHouseNearby), errors.Is(err, data.ErrPlaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, data.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
