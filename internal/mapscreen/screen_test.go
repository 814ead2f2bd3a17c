package mapscreen

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/VinothKuppanna/walkmap/internal/houses"
	"github.com/VinothKuppanna/walkmap/internal/mapview"
	"github.com/VinothKuppanna/walkmap/internal/notify"
	"github.com/VinothKuppanna/walkmap/internal/scheduler"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var office = def.Coordinate{Lat: 40, Lng: -75}

type providerFunc func(ctx context.Context, r *def.RouteRequest) *def.RouteResponse

func (f providerFunc) Route(ctx context.Context, r *def.RouteRequest) *def.RouteResponse {
	return f(ctx, r)
}

// gatedProvider holds every request until the test releases a response for
// its origin.
type gatedProvider struct {
	mu    sync.Mutex
	gates map[def.Coordinate]chan *def.RouteResponse
	calls *atomic.Int64
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{gates: map[def.Coordinate]chan *def.RouteResponse{}, calls: atomic.NewInt64(0)}
}

func (p *gatedProvider) gate(origin def.Coordinate) chan *def.RouteResponse {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.gates[origin]
	if !ok {
		ch = make(chan *def.RouteResponse, 1)
		p.gates[origin] = ch
	}
	return ch
}

func (p *gatedProvider) Route(ctx context.Context, r *def.RouteRequest) *def.RouteResponse {
	p.calls.Inc()
	select {
	case response := <-p.gate(r.Origin):
		return response
	case <-ctx.Done():
		return &def.RouteResponse{Status: def.StatusUnknownError, Error: ctx.Err()}
	}
}

func (p *gatedProvider) release(origin def.Coordinate, response *def.RouteResponse) {
	p.gate(origin) <- response
}

func okResponse(summary string) *def.RouteResponse {
	return &def.RouteResponse{
		Status: def.StatusOK,
		Result: &def.RouteResult{Routes: []*def.Route{{
			Summary: summary,
			Legs: []*def.Leg{{
				Distance: &def.Distance{Text: "0.8 mi", Meters: 1287},
				Duration: &def.Duration{Text: "15 mins", Seconds: 900},
			}},
		}}},
	}
}

func newScreen(t *testing.T, provider def.RouteProvider) (*Screen, scheduler.Scheduler) {
	t.Helper()
	js := scheduler.New(log.NewNopLogger())
	t.Cleanup(js.Stop)
	screen := New("s1", Dependencies{
		Provider:   provider,
		Generator:  houses.NewGenerator(houses.DefaultCount, houses.DefaultDivisor, rand.NewSource(7)),
		Dispatcher: js,
		Logger:     log.NewNopLogger(),
	}, Options{Center: mapview.DefaultCenter})
	return screen, js
}

func TestSelectOffice_DerivesHousesAndPans(t *testing.T) {
	screen, _ := newScreen(t, newGatedProvider())

	require.NoError(t, screen.SelectOffice(office))

	got, ok := screen.Office()
	require.True(t, ok)
	assert.Equal(t, office, got)

	set := screen.Houses()
	require.Len(t, set, houses.DefaultCount)
	for _, h := range set {
		assert.LessOrEqual(t, h.Lat-office.Lat, 1/houses.DefaultDivisor)
		assert.LessOrEqual(t, office.Lat-h.Lat, 1/houses.DefaultDivisor)
	}

	state := screen.Snapshot()
	require.NotNil(t, state.Office)
	assert.Equal(t, office, *state.Office)
	assert.Equal(t, set, state.Houses)
	assert.Equal(t, office, state.Viewport.Center)
	assert.Equal(t, mapview.DefaultZoom, state.Viewport.Zoom)
}

func TestSelectOffice_ReplacesHouses(t *testing.T) {
	screen, _ := newScreen(t, newGatedProvider())
	require.NoError(t, screen.SelectOffice(office))
	first := screen.Houses()

	other := def.Coordinate{Lat: 51.5, Lng: -0.12}
	require.NoError(t, screen.SelectOffice(other))
	second := screen.Houses()

	require.Len(t, second, houses.DefaultCount)
	assert.NotEqual(t, first, second)
	got, _ := screen.Office()
	assert.Equal(t, other, got)
}

func TestSelectOffice_Invalid(t *testing.T) {
	screen, _ := newScreen(t, newGatedProvider())
	assert.Error(t, screen.SelectOffice(def.Coordinate{Lat: 95, Lng: 0}))
	_, ok := screen.Office()
	assert.False(t, ok)
	assert.Nil(t, screen.Houses())
}

func TestRequestRoute_WithoutOffice(t *testing.T) {
	provider := newGatedProvider()
	screen, _ := newScreen(t, provider)

	_, err := screen.RequestRoute(def.Coordinate{Lat: 40.01, Lng: -74.99})
	assert.Equal(t, ErrNoOffice, err)
	assert.Equal(t, int64(0), provider.calls.Load())
	assert.Nil(t, screen.Route())
	assert.Equal(t, 0, screen.Notifications().Pending())
}

func TestRequestRoute_StoresResultAndToastsOnce(t *testing.T) {
	var requests []*def.RouteRequest
	var mu sync.Mutex
	provider := providerFunc(func(ctx context.Context, r *def.RouteRequest) *def.RouteResponse {
		mu.Lock()
		requests = append(requests, r)
		mu.Unlock()
		return okResponse("Main St")
	})
	screen, _ := newScreen(t, provider)
	require.NoError(t, screen.SelectOffice(office))

	house := screen.Houses()[0]
	seq, err := screen.RequestRoute(house)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	require.Eventually(t, func() bool { return screen.Route() != nil }, time.Second, 5*time.Millisecond)

	mu.Lock()
	require.Len(t, requests, 1)
	assert.Equal(t, house, requests[0].Origin)
	assert.Equal(t, office, requests[0].Destination)
	assert.Equal(t, def.TravelModeWalking, requests[0].Mode)
	mu.Unlock()

	toasts := screen.Notifications().Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.RouteStarted, toasts[0].Message)
	assert.Equal(t, def.NotifySuccess, toasts[0].Options.Kind)

	canvas := screen.Canvas(mapview.Options{})
	assert.Equal(t, "It will take 15 mins to arrive to your destination of 0.8 mi.", canvas.Summary)
}

func TestRequestRoute_LatestWinsWhenOlderFinishesLast(t *testing.T) {
	provider := newGatedProvider()
	screen, js := newScreen(t, provider)
	require.NoError(t, screen.SelectOffice(office))
	set := screen.Houses()

	_, err := screen.RequestRoute(set[0])
	require.NoError(t, err)
	_, err = screen.RequestRoute(set[1])
	require.NoError(t, err)

	second := okResponse("second")
	provider.release(set[1], second)
	require.Eventually(t, func() bool { return screen.Route() == second.Result }, time.Second, 5*time.Millisecond)

	provider.release(set[0], okResponse("first"))
	require.Eventually(t, func() bool { return js.Active() == 0 }, time.Second, 5*time.Millisecond)

	assert.Same(t, second.Result, screen.Route())
	assert.Len(t, screen.Notifications().Drain(), 1)
}

func TestRequestRoute_LatestWinsWhenOlderFinishesFirst(t *testing.T) {
	provider := newGatedProvider()
	screen, js := newScreen(t, provider)
	require.NoError(t, screen.SelectOffice(office))
	set := screen.Houses()

	_, err := screen.RequestRoute(set[0])
	require.NoError(t, err)
	_, err = screen.RequestRoute(set[1])
	require.NoError(t, err)

	provider.release(set[0], okResponse("first"))
	require.Eventually(t, func() bool { return js.Active() == 1 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, screen.Route())
	assert.Equal(t, 0, screen.Notifications().Pending())

	second := okResponse("second")
	provider.release(set[1], second)
	require.Eventually(t, func() bool { return js.Active() == 0 }, time.Second, 5*time.Millisecond)

	assert.Same(t, second.Result, screen.Route())
	assert.Len(t, screen.Notifications().Drain(), 1)
}

func TestRequestRoute_OlderOKAfterNewerFailureIsDropped(t *testing.T) {
	provider := newGatedProvider()
	screen, js := newScreen(t, provider)
	require.NoError(t, screen.SelectOffice(office))
	set := screen.Houses()

	_, err := screen.RequestRoute(set[0])
	require.NoError(t, err)
	_, err = screen.RequestRoute(set[1])
	require.NoError(t, err)

	provider.release(set[1], &def.RouteResponse{Status: def.StatusZeroResults})
	require.Eventually(t, func() bool { return js.Active() == 1 }, time.Second, 5*time.Millisecond)
	provider.release(set[0], okResponse("first"))
	require.Eventually(t, func() bool { return js.Active() == 0 }, time.Second, 5*time.Millisecond)

	assert.Nil(t, screen.Route())
	toasts := screen.Notifications().Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, FailureMessage(def.StatusZeroResults), toasts[0].Message)
	assert.Equal(t, def.NotifyError, toasts[0].Options.Kind)
}

func TestRequestRoute_SupersededFailureIsSilent(t *testing.T) {
	provider := newGatedProvider()
	screen, js := newScreen(t, provider)
	require.NoError(t, screen.SelectOffice(office))
	set := screen.Houses()

	_, err := screen.RequestRoute(set[0])
	require.NoError(t, err)
	_, err = screen.RequestRoute(set[1])
	require.NoError(t, err)

	provider.release(set[0], &def.RouteResponse{Status: def.StatusNotFound})
	require.Eventually(t, func() bool { return js.Active() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, screen.Notifications().Pending())

	second := okResponse("second")
	provider.release(set[1], second)
	require.Eventually(t, func() bool { return js.Active() == 0 }, time.Second, 5*time.Millisecond)

	assert.Same(t, second.Result, screen.Route())
	toasts := screen.Notifications().Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.RouteStarted, toasts[0].Message)
}

func TestRequestRoute_FailureKeepsPreviousRoute(t *testing.T) {
	provider := newGatedProvider()
	screen, js := newScreen(t, provider)
	require.NoError(t, screen.SelectOffice(office))
	set := screen.Houses()

	_, err := screen.RequestRoute(set[0])
	require.NoError(t, err)
	ok := okResponse("kept")
	provider.release(set[0], ok)
	require.Eventually(t, func() bool { return screen.Route() != nil }, time.Second, 5*time.Millisecond)
	screen.Notifications().Drain()

	_, err = screen.RequestRoute(set[1])
	require.NoError(t, err)
	provider.release(set[1], &def.RouteResponse{Status: def.StatusZeroResults})
	require.Eventually(t, func() bool { return js.Active() == 0 }, time.Second, 5*time.Millisecond)

	assert.Same(t, ok.Result, screen.Route())
	toasts := screen.Notifications().Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, def.NotifyError, toasts[0].Options.Kind)
	assert.Equal(t, FailureMessage(def.StatusZeroResults), toasts[0].Message)
}

func TestRequestRoute_CancelledJobIsDropped(t *testing.T) {
	provider := newGatedProvider()
	screen, js := newScreen(t, provider)
	require.NoError(t, screen.SelectOffice(office))

	seq, err := screen.RequestRoute(screen.Houses()[0])
	require.NoError(t, err)
	require.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	js.Cancel(JobID{Screen: "s1", Sequence: seq})
	require.Eventually(t, func() bool { return js.Active() == 0 }, time.Second, 5*time.Millisecond)

	assert.Nil(t, screen.Route())
	assert.Equal(t, 0, screen.Notifications().Pending())
}

func TestClick(t *testing.T) {
	provider := providerFunc(func(ctx context.Context, r *def.RouteRequest) *def.RouteResponse {
		return okResponse("clicked")
	})
	screen, _ := newScreen(t, provider)

	_, _, err := screen.Click(office)
	assert.Equal(t, ErrNoOffice, err)

	require.NoError(t, screen.SelectOffice(office))
	target := screen.Houses()[3]

	house, seq, err := screen.Click(def.Coordinate{Lat: target.Lat + 0.0001, Lng: target.Lng})
	require.NoError(t, err)
	assert.Equal(t, target, house)
	assert.Equal(t, uint64(1), seq)
	require.Eventually(t, func() bool { return screen.Route() != nil }, time.Second, 5*time.Millisecond)

	_, _, err = screen.Click(def.Coordinate{Lat: 10, Lng: 10})
	assert.Equal(t, houses.ErrNoHouseNearby, err)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "Could not start route (UNKNOWN_ERROR).", FailureMessage(def.StatusUnknownError))
	assert.NotEqual(t, FailureMessage(def.StatusZeroResults), FailureMessage(def.StatusNotFound))
}
