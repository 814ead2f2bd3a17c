package definition

import "context"

type RouteProvider interface {
	Route(context.Context, *RouteRequest) *RouteResponse
}

type TravelMode string

const (
	TravelModeWalking   TravelMode = "walking"
	TravelModeDriving   TravelMode = "driving"
	TravelModeBicycling TravelMode = "bicycling"
	TravelModeTransit   TravelMode = "transit"
)

// RouteStatus mirrors the status codes of the directions web service.
type RouteStatus string

const (
	StatusOK                     RouteStatus = "OK"
	StatusNotFound               RouteStatus = "NOT_FOUND"
	StatusZeroResults            RouteStatus = "ZERO_RESULTS"
	StatusMaxWaypointsExceeded   RouteStatus = "MAX_WAYPOINTS_EXCEEDED"
	StatusMaxRouteLengthExceeded RouteStatus = "MAX_ROUTE_LENGTH_EXCEEDED"
	StatusInvalidRequest         RouteStatus = "INVALID_REQUEST"
	StatusOverQueryLimit         RouteStatus = "OVER_QUERY_LIMIT"
	StatusOverDailyLimit         RouteStatus = "OVER_DAILY_LIMIT"
	StatusRequestDenied          RouteStatus = "REQUEST_DENIED"
	StatusUnknownError           RouteStatus = "UNKNOWN_ERROR"
)

var knownStatuses = []RouteStatus{
	StatusOK,
	StatusNotFound,
	StatusZeroResults,
	StatusMaxWaypointsExceeded,
	StatusMaxRouteLengthExceeded,
	StatusInvalidRequest,
	StatusOverQueryLimit,
	StatusOverDailyLimit,
	StatusRequestDenied,
	StatusUnknownError,
}

// ParseRouteStatus maps a raw status string to a known status, falling back
// to StatusUnknownError.
func ParseRouteStatus(raw string) RouteStatus {
	for _, status := range knownStatuses {
		if string(status) == raw {
			return status
		}
	}
	return StatusUnknownError
}

type RouteRequest struct {
	Origin      Coordinate
	Destination Coordinate
	Mode        TravelMode
}

// CacheKey follows the "origin|destination" scheme, suffixed with the mode.
func (r *RouteRequest) CacheKey() string {
	return r.Origin.String() + "|" + r.Destination.String() + "|" + string(r.Mode)
}

type RouteResponse struct {
	Status RouteStatus
	Result *RouteResult
	Error  error
}

type RouteResult struct {
	Routes []*Route `json:"routes"`
}

// FirstLeg returns routes[0].legs[0], or nil when the result has none.
func (r *RouteResult) FirstLeg() *Leg {
	if r == nil || len(r.Routes) == 0 || r.Routes[0] == nil || len(r.Routes[0].Legs) == 0 {
		return nil
	}
	return r.Routes[0].Legs[0]
}

type Route struct {
	Summary  string       `json:"summary"`
	Legs     []*Leg       `json:"legs"`
	Polyline string       `json:"polyline"`
	Path     []Coordinate `json:"path"`
	Warnings []string     `json:"warnings,omitempty"`
}

type Leg struct {
	Distance      *Distance  `json:"distance,omitempty"`
	Duration      *Duration  `json:"duration,omitempty"`
	StartLocation Coordinate `json:"startLocation"`
	EndLocation   Coordinate `json:"endLocation"`
	StartAddress  string     `json:"startAddress,omitempty"`
	EndAddress    string     `json:"endAddress,omitempty"`
}

type Distance struct {
	Text   string `json:"text"`
	Meters int    `json:"value"`
}

type Duration struct {
	Text    string `json:"text"`
	Seconds int64  `json:"value"`
}
