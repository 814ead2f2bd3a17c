package mapscreen

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VinothKuppanna/walkmap/internal/endpoints/notifications"
	"github.com/VinothKuppanna/walkmap/internal/houses"
	screens "github.com/VinothKuppanna/walkmap/internal/mapscreen"
	"github.com/VinothKuppanna/walkmap/internal/mapview"
	"github.com/VinothKuppanna/walkmap/internal/middleware/session"
	"github.com/VinothKuppanna/walkmap/internal/notify"
	"github.com/VinothKuppanna/walkmap/internal/scheduler"
	"github.com/VinothKuppanna/walkmap/pkg/data"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directionsBody = `{
  "status": "OK",
  "routes": [{
    "summary": "Main St",
    "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"},
    "legs": [{
      "distance": {"text": "0.8 mi", "value": 1287},
      "duration": {"text": "15 mins", "value": 900},
      "start_location": {"lat": 40.01, "lng": -74.99},
      "end_location": {"lat": 40, "lng": -75},
      "steps": []
    }]
  }]
}`

type stubPlaces struct {
	place *def.Place
}

func (s *stubPlaces) Autocomplete(context.Context, *def.AutocompleteRequest) *def.AutocompleteResponse {
	return &def.AutocompleteResponse{}
}

func (s *stubPlaces) Resolve(context.Context, *def.ResolveRequest) *def.ResolveResponse {
	if s.place == nil {
		return &def.ResolveResponse{Error: errors.Wrap(data.ErrPlaceNotFound, "PlacesService.Resolve")}
	}
	return &def.ResolveResponse{Place: s.place}
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client

	mu      sync.Mutex
	queries []url.Values
}

// directionsQueries returns the query of every directions call seen so far.
func (c *testClient) directionsQueries() []url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]url.Values(nil), c.queries...)
}

func (c *testClient) do(method, path, body string, out interface{}) int {
	c.t.Helper()
	req, err := http.NewRequest(method, c.server.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// newApp wires the real directions service against a stubbed web service.
func newApp(t *testing.T, places def.PlacesService) *testClient {
	t.Helper()
	app := &testClient{t: t}
	mapsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/directions/json" {
			http.NotFound(w, r)
			return
		}
		app.mu.Lock()
		app.queries = append(app.queries, r.URL.Query())
		app.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, directionsBody)
	}))
	t.Cleanup(mapsServer.Close)

	client, err := data.NewMapsClient("test-key", mapsServer.URL, 0)
	require.NoError(t, err)
	provider := data.NewDirectionsService(client)

	js := scheduler.New(log.NewNopLogger())
	t.Cleanup(js.Stop)
	generator := houses.NewGenerator(houses.DefaultCount, houses.DefaultDivisor, rand.NewSource(42))
	store := session.NewStore(func(id string) *screens.Screen {
		return screens.New(id, screens.Dependencies{
			Provider:   provider,
			Generator:  generator,
			Dispatcher: js,
			Logger:     log.NewNopLogger(),
		}, screens.Options{Center: mapview.DefaultCenter})
	}, time.Minute, nil, log.NewNopLogger())

	router := mux.NewRouter()
	store.Setup(router)
	NewHandler(places, mapview.Options{MapID: "map-1"}).SetupRouts(router)
	notifications.SetupRouts(router)

	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	app.client = &http.Client{Jar: jar}
	return app
}

type stateBody struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Canvas  mapview.Canvas `json:"canvas"`
	Place   *def.Place     `json:"place"`
}

func TestEndToEnd_RouteFromHouseToOffice(t *testing.T) {
	app := newApp(t, &stubPlaces{})

	var initial stateBody
	require.Equal(t, http.StatusOK, app.do(http.MethodGet, PathState, "", &initial))
	assert.Equal(t, mapview.Prompt, initial.Canvas.Prompt)
	assert.Empty(t, initial.Canvas.Markers)

	var selected stateBody
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, PathSelectOffice, `{"lat":40,"lng":-75}`, &selected))
	assert.Equal(t, def.Coordinate{Lat: 40, Lng: -75}, selected.Canvas.Viewport.Center)
	assert.Len(t, selected.Canvas.Markers, houses.DefaultCount+1)
	assert.Len(t, selected.Canvas.Circles, 3)
	assert.Empty(t, selected.Canvas.Prompt)
	assert.Equal(t, "map-1", selected.Canvas.Options.MapID)
	for _, marker := range selected.Canvas.Markers {
		if marker.Kind != mapview.MarkerHouse {
			continue
		}
		assert.Less(t, math.Abs(marker.Position.Lat-40), 1/houses.DefaultDivisor)
		assert.Less(t, math.Abs(marker.Position.Lng+75), 1/houses.DefaultDivisor)
	}

	var accepted routeHttpResponse
	require.Equal(t, http.StatusAccepted, app.do(http.MethodPost, PathRequestRoute, `{"lat":40.01,"lng":-74.99}`, &accepted))
	assert.Equal(t, uint64(1), accepted.Sequence)

	want := "It will take 15 mins to arrive to your destination of 0.8 mi."
	require.Eventually(t, func() bool {
		var state stateBody
		app.do(http.MethodGet, PathState, "", &state)
		return state.Canvas.Summary == want
	}, 2*time.Second, 10*time.Millisecond)

	var state stateBody
	app.do(http.MethodGet, PathState, "", &state)
	require.NotNil(t, state.Canvas.Route)
	assert.Len(t, state.Canvas.Route.Path, 3)

	queries := app.directionsQueries()
	require.Len(t, queries, 1)
	assert.Equal(t, "40.01,-74.99", queries[0].Get("origin"))
	assert.Equal(t, "40,-75", queries[0].Get("destination"))
	assert.Equal(t, "walking", queries[0].Get("mode"))

	var drained struct {
		Toasts []notify.Toast `json:"toasts"`
	}
	require.Equal(t, http.StatusOK, app.do(http.MethodGet, notifications.PathDrain, "", &drained))
	require.Len(t, drained.Toasts, 1)
	assert.Equal(t, "Starting route!", drained.Toasts[0].Message)
	assert.Equal(t, def.NotifySuccess, drained.Toasts[0].Options.Kind)
}

func TestRequestRoute_WithoutOffice(t *testing.T) {
	app := newApp(t, &stubPlaces{})
	var body stateBody
	assert.Equal(t, http.StatusConflict, app.do(http.MethodPost, PathRequestRoute, `{"lat":40.01,"lng":-74.99}`, &body))
	assert.Equal(t, "Conflict", body.Status)
	assert.Equal(t, "enter starting location first", body.Message)
}

func TestSelectOffice_ByPlace(t *testing.T) {
	place := &def.Place{PlaceID: "p1", FormattedAddress: "1 Main St", Location: def.Coordinate{Lat: 51.5, Lng: -0.12}}
	app := newApp(t, &stubPlaces{place: place})

	var body stateBody
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, PathSelectOffice, `{"placeId":"p1"}`, &body))
	require.NotNil(t, body.Place)
	assert.Equal(t, "1 Main St", body.Place.FormattedAddress)
	assert.Equal(t, place.Location, body.Canvas.Viewport.Center)
}

func TestSelectOffice_Errors(t *testing.T) {
	app := newApp(t, &stubPlaces{})
	tests := []struct {
		body string
		want int
	}{
		{`{}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
		{`{"lat":123,"lng":0}`, http.StatusBadRequest},
		{`{"address":"nowhere"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		var body stateBody
		assert.Equal(t, tt.want, app.do(http.MethodPost, PathSelectOffice, tt.body, &body), tt.body)
		assert.Equal(t, http.StatusText(tt.want), body.Status)
	}
}

func TestClick(t *testing.T) {
	app := newApp(t, &stubPlaces{})
	var body stateBody
	assert.Equal(t, http.StatusConflict, app.do(http.MethodPost, PathClick, `{"lat":40,"lng":-75}`, &body))

	var selected stateBody
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, PathSelectOffice, `{"lat":40,"lng":-75}`, &selected))
	var house def.Coordinate
	for _, m := range selected.Canvas.Markers {
		if m.Kind == mapview.MarkerHouse {
			house = m.Position
			break
		}
	}

	var accepted routeHttpResponse
	require.Equal(t, http.StatusAccepted, app.do(http.MethodPost, PathClick, fmt.Sprintf(`{"lat":%v,"lng":%v}`, house.Lat, house.Lng), &accepted))
	assert.Equal(t, house, accepted.House)

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPost, PathClick, `{"lat":10,"lng":10}`, &body))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Wrap(errBadRequest, "x"), http.StatusBadRequest},
		{def.Coordinate{Lat: 100}.Validate(), http.StatusBadRequest},
		{screens.ErrNoOffice, http.StatusConflict},
		{houses.ErrNoHouseNearby, http.StatusNotFound},
		{errors.Wrap(data.ErrPlaceNotFound, "PlacesService.Resolve"), http.StatusNotFound},
		{data.ErrNotConfigured, http.StatusServiceUnavailable},
		{errNoSession, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), "%v", tt.err)
	}
}
