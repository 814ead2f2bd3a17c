// Package mapscreen owns the state behind one visitor's map: the chosen
// office, the houses derived from it and the latest walking route.
package mapscreen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/VinothKuppanna/walkmap/internal/houses"
	"github.com/VinothKuppanna/walkmap/internal/mapview"
	"github.com/VinothKuppanna/walkmap/internal/notify"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
)

var ErrNoOffice = errors.New("enter starting location first")

// Dispatcher runs a task in the background, keyed by id.
type Dispatcher interface {
	Dispatch(ctx context.Context, id interface{}, task func(ctx context.Context))
}

// JobID identifies one route request of one screen.
type JobID struct {
	Screen   string
	Sequence uint64
}

func (j JobID) String() string {
	return fmt.Sprintf("%s/%d", j.Screen, j.Sequence)
}

type Dependencies struct {
	Context    context.Context
	Provider   def.RouteProvider
	Generator  *houses.Generator
	Dispatcher Dispatcher
	Logger     log.Logger
}

type Options struct {
	Center       def.Coordinate
	Zoom         int
	HitTolerance float64
	Toasts       notify.Defaults
}

type Screen struct {
	id           string
	ctx          context.Context
	provider     def.RouteProvider
	generator    *houses.Generator
	dispatcher   Dispatcher
	logger       log.Logger
	viewport     *mapview.Handle
	center       *notify.Center
	toasts       notify.Defaults
	hitTolerance float64
	sequence     *atomic.Uint64

	mu       sync.RWMutex
	office   *def.Coordinate
	houses   []def.Coordinate
	index    *houses.Index
	route    *def.RouteResult
}

func New(id string, deps Dependencies, opts Options) *Screen {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	generator := deps.Generator
	if generator == nil {
		generator = houses.NewGenerator(houses.DefaultCount, houses.DefaultDivisor, nil)
	}
	tolerance := opts.HitTolerance
	if tolerance <= 0 {
		tolerance = houses.DefaultHitTolerance
	}
	return &Screen{
		id:           id,
		ctx:          ctx,
		provider:     deps.Provider,
		generator:    generator,
		dispatcher:   deps.Dispatcher,
		logger:       log.With(logger, "screen", id),
		viewport:     mapview.NewHandle(opts.Center, opts.Zoom),
		center:       notify.NewCenter(notify.DefaultCapacity),
		toasts:       opts.Toasts,
		hitTolerance: tolerance,
		sequence:     atomic.NewUint64(0),
	}
}

func (s *Screen) ID() string {
	return s.id
}

func (s *Screen) Notifications() *notify.Center {
	return s.center
}

// SelectOffice replaces the office, regenerates the houses around it and
// pans the viewport there.
func (s *Screen) SelectOffice(office def.Coordinate) error {
	if err := office.Validate(); err != nil {
		return err
	}
	set := s.generator.Derive(office)
	index := houses.NewIndex(set)

	s.mu.Lock()
	s.office = &office
	s.houses = set
	s.index = index
	s.mu.Unlock()

	s.viewport.PanTo(office)
	level.Info(s.logger).Log("msg", "office selected", "office", office, "houses", len(set))
	return nil
}

// RequestRoute asks for a walking route from the house to the office and
// returns without waiting for it. The returned sequence orders requests of
// this screen; a response is applied only while its request is still the
// latest one issued.
func (s *Screen) RequestRoute(house def.Coordinate) (uint64, error) {
	if err := house.Validate(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	office := s.office
	s.mu.RUnlock()
	if office == nil {
		return 0, ErrNoOffice
	}

	seq := s.sequence.Inc()
	request := &def.RouteRequest{
		Origin:      house,
		Destination: *office,
		Mode:        def.TravelModeWalking,
	}
	s.dispatcher.Dispatch(s.ctx, JobID{Screen: s.id, Sequence: seq}, func(ctx context.Context) {
		response := s.provider.Route(ctx, request)
		if ctx.Err() != nil {
			level.Debug(s.logger).Log("msg", "route dropped", "sequence", seq, "err", ctx.Err())
			return
		}
		s.applyRoute(seq, response)
	})
	level.Debug(s.logger).Log("msg", "route requested", "sequence", seq, "origin", house, "destination", *office)
	return seq, nil
}

// Click maps a point on the map to the nearest house marker and requests a
// route from it.
func (s *Screen) Click(point def.Coordinate) (def.Coordinate, uint64, error) {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	if index == nil {
		return def.Coordinate{}, 0, ErrNoOffice
	}
	house, _, err := index.Nearest(point, s.hitTolerance)
	if err != nil {
		return def.Coordinate{}, 0, err
	}
	seq, err := s.RequestRoute(house)
	return house, seq, err
}

func (s *Screen) applyRoute(seq uint64, response *def.RouteResponse) {
	if response == nil {
		response = &def.RouteResponse{Status: def.StatusUnknownError}
	}

	// only the response to the latest issued request counts, whatever it says
	s.mu.Lock()
	stale := seq != s.sequence.Load()
	ok := response.Status == def.StatusOK && response.Result != nil
	if ok && !stale {
		s.route = response.Result
	}
	s.mu.Unlock()

	switch {
	case stale:
		level.Debug(s.logger).Log("msg", "stale route response discarded", "sequence", seq, "status", response.Status)
	case ok:
		s.center.Notify(notify.RouteStarted, s.toasts.Options(def.NotifySuccess))
	default:
		level.Warn(s.logger).Log("msg", "route request failed", "sequence", seq, "status", response.Status, "err", response.Error)
		s.center.Notify(FailureMessage(response.Status), s.toasts.Options(def.NotifyError))
	}
}

// FailureMessage is the toast shown when the route service answers with
// anything but OK.
func FailureMessage(status def.RouteStatus) string {
	switch status {
	case def.StatusZeroResults:
		return "No walking route found from this house."
	case def.StatusNotFound:
		return "That house or office could not be located."
	case def.StatusOverQueryLimit, def.StatusOverDailyLimit:
		return "Too many route requests, try again shortly."
	case def.StatusRequestDenied:
		return "Route requests are not allowed for this map key."
	default:
		return fmt.Sprintf("Could not start route (%s).", status)
	}
}

func (s *Screen) Office() (def.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.office == nil {
		return def.Coordinate{}, false
	}
	return *s.office, true
}

// Houses returns a copy of the current house set, nil without an office.
func (s *Screen) Houses() []def.Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.houses == nil {
		return nil
	}
	return append([]def.Coordinate(nil), s.houses...)
}

func (s *Screen) Route() *def.RouteResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.route
}

func (s *Screen) Snapshot() mapview.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := mapview.State{
		Route:    s.route,
		Viewport: s.viewport.Viewport(),
	}
	if s.office != nil {
		office := *s.office
		state.Office = &office
		state.Houses = append([]def.Coordinate(nil), s.houses...)
	}
	return state
}

func (s *Screen) Canvas(opts mapview.Options) mapview.Canvas {
	return mapview.Build(s.Snapshot(), opts)
}

// JobsOf matches the background route jobs of one screen.
func JobsOf(screen string) func(jobID interface{}) bool {
	return func(jobID interface{}) bool {
		id, ok := jobID.(JobID)
		return ok && id.Screen == screen
	}
}
