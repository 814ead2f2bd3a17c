package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/VinothKuppanna/walkmap/internal/cache"
	"github.com/VinothKuppanna/walkmap/pkg/data"
	"github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/gorilla/mux"
	cache2 "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	PathAutocomplete = "/PlacesService.Autocomplete"
	PathResolve      = "/PlacesService.Resolve"
)

type handler struct {
	service definition.PlacesService
	cache   *cache2.Cache
}

// NewHandler serves place lookups. Predictions are memoized in memo, the
// shared cache when memo is nil.
func NewHandler(service definition.PlacesService, memo *cache2.Cache) *handler {
	if memo == nil {
		memo = cache.Cache
	}
	return &handler{service, memo}
}

func (h *handler) autocomplete() http.HandlerFunc {
	type autocompleteRequest struct {
		Input        string                 `json:"input"`
		SessionToken string                 `json:"sessionToken"`
		Bias         *definition.Coordinate `json:"bias,omitempty"`
	}
	type autocompleteResponse struct {
		Status      string                   `json:"status"`
		Predictions []*definition.Prediction `json:"predictions"`
		Message     string                   `json:"message,omitempty"`
	}
	responseWithError := func(resp http.ResponseWriter, response *autocompleteResponse, err error, statusCode int) {
		response.Status = http.StatusText(statusCode)
		response.Message = err.Error()
		resp.Header().Set("Content-Type", "application/json")
		resp.WriteHeader(statusCode)
		_ = json.NewEncoder(resp).Encode(response)
	}
	responseOk := func(resp http.ResponseWriter, response *autocompleteResponse) {
		response.Status = http.StatusText(http.StatusOK)
		resp.Header().Set("Content-Type", "application/json")
		resp.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(resp).Encode(response)
	}
	cacheKey := func(request *autocompleteRequest) string {
		key := "autocomplete|" + strings.ToLower(strings.TrimSpace(request.Input))
		if request.Bias != nil {
			key = fmt.Sprintf("%s|%s", key, request.Bias)
		}
		return key
	}
	cacheResponse := func(request *autocompleteRequest, response *autocompleteResponse) {
		h.cache.Set(cacheKey(request), response.Predictions, cache2.DefaultExpiration)
	}
	responseCached := func(request *autocompleteRequest, response *autocompleteResponse) bool {
		if value, ok := h.cache.Get(cacheKey(request)); ok {
			response.Predictions = value.([]*definition.Prediction)
			return true
		}
		return false
	}
	return func(resp http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		response := &autocompleteResponse{Predictions: make([]*definition.Prediction, 0)}

		bytes, err := ioutil.ReadAll(req.Body)
		if err != nil {
			responseWithError(resp, response, err, http.StatusBadRequest)
			return
		}

		var request *autocompleteRequest
		if err = json.Unmarshal(bytes, &request); err != nil {
			responseWithError(resp, response, err, http.StatusBadRequest)
			return
		}
		if request == nil || len(strings.TrimSpace(request.Input)) == 0 {
			responseOk(resp, response)
			return
		}
		if request.Bias != nil {
			if err = request.Bias.Validate(); err != nil {
				responseWithError(resp, response, err, http.StatusBadRequest)
				return
			}
		}

		if responseCached(request, response) {
			responseOk(resp, response)
			return
		}

		result := h.service.Autocomplete(ctx, &definition.AutocompleteRequest{
			Input:        request.Input,
			SessionToken: request.SessionToken,
			Bias:         request.Bias,
		})
		if err = result.Error; err != nil {
			responseWithError(resp, response, err, http.StatusBadGateway)
			return
		}
		if result.Predictions != nil {
			response.Predictions = result.Predictions
		}

		cacheResponse(request, response)

		responseOk(resp, response)
	}
}

func (h *handler) resolve() http.HandlerFunc {
	type resolveRequest struct {
		PlaceID      string `json:"placeId"`
		Address      string `json:"address"`
		SessionToken string `json:"sessionToken"`
	}
	type resolveResponse struct {
		Status  string            `json:"status"`
		Place   *definition.Place `json:"place,omitempty"`
		Message string            `json:"message,omitempty"`
	}
	respond := func(resp http.ResponseWriter, response *resolveResponse, statusCode int) {
		response.Status = http.StatusText(statusCode)
		resp.Header().Set("Content-Type", "application/json")
		resp.WriteHeader(statusCode)
		_ = json.NewEncoder(resp).Encode(response)
	}
	return func(resp http.ResponseWriter, req *http.Request) {
		response := &resolveResponse{}

		var request *resolveRequest
		if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
			response.Message = err.Error()
			respond(resp, response, http.StatusBadRequest)
			return
		}
		if request == nil || (len(request.PlaceID) == 0 && len(strings.TrimSpace(request.Address)) == 0) {
			response.Message = "placeId or address is required"
			respond(resp, response, http.StatusBadRequest)
			return
		}

		resolved := h.service.Resolve(req.Context(), &definition.ResolveRequest{
			PlaceID:      request.PlaceID,
			Address:      request.Address,
			SessionToken: request.SessionToken,
		})
		if err := resolved.Error; err != nil {
			response.Message = err.Error()
			if errors.Is(err, data.ErrPlaceNotFound) {
				respond(resp, response, http.StatusNotFound)
				return
			}
			respond(resp, response, http.StatusBadGateway)
			return
		}
		response.Place = resolved.Place
		respond(resp, response, http.StatusOK)
	}
}

func (h *handler) SetupRouts(router *mux.Router) {
	router.Handle(PathAutocomplete, h.autocomplete()).Methods(http.MethodPost)
	router.Handle(PathResolve, h.resolve()).Methods(http.MethodPost)
}
