package mapview

import (
	"github.com/VinothKuppanna/walkmap/internal/houses"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
)

const (
	OfficeIcon = "https://developers.google.com/maps/documentation/javascript/examples/full/images/beachflag.png"
	Prompt     = "Enter starting location"
	Heading    = "Businesses near you"

	routeStrokeColor  = "#1976D2"
	routeStrokeWeight = 5
	routeZIndex       = 50
)

// State is everything a canvas is drawn from.
type State struct {
	Office   *def.Coordinate
	Houses   []def.Coordinate
	Route    *def.RouteResult
	Viewport Viewport
}

type Options struct {
	MapID string
}

type MapOptions struct {
	MapID            string `json:"mapId,omitempty"`
	DisableDefaultUI bool   `json:"disableDefaultUI"`
	ClickableIcons   bool   `json:"clickableIcons"`
}

type MarkerKind string

const (
	MarkerOffice MarkerKind = "office"
	MarkerHouse  MarkerKind = "house"
)

type Marker struct {
	Kind      MarkerKind     `json:"kind"`
	Position  def.Coordinate `json:"position"`
	Icon      string         `json:"icon,omitempty"`
	Clickable bool           `json:"clickable"`
	Band      houses.Band    `json:"band,omitempty"`
}

type CircleOptions struct {
	StrokeOpacity float64 `json:"strokeOpacity"`
	StrokeWeight  int     `json:"strokeWeight"`
	StrokeColor   string  `json:"strokeColor"`
	FillColor     string  `json:"fillColor"`
	FillOpacity   float64 `json:"fillOpacity"`
	Clickable     bool    `json:"clickable"`
	Draggable     bool    `json:"draggable"`
	Editable      bool    `json:"editable"`
	Visible       bool    `json:"visible"`
	ZIndex        int     `json:"zIndex"`
}

type Circle struct {
	Band    houses.Band    `json:"band"`
	Center  def.Coordinate `json:"center"`
	Radius  float64        `json:"radius"`
	Options CircleOptions  `json:"options"`
}

type PolylineOptions struct {
	StrokeColor  string `json:"strokeColor"`
	StrokeWeight int    `json:"strokeWeight"`
	ZIndex       int    `json:"zIndex"`
}

type Polyline struct {
	Encoded string           `json:"encoded"`
	Path    []def.Coordinate `json:"path"`
	Options PolylineOptions  `json:"options"`
}

type Canvas struct {
	Heading  string     `json:"heading"`
	Viewport Viewport   `json:"viewport"`
	Options  MapOptions `json:"options"`
	Markers  []Marker   `json:"markers"`
	Circles  []Circle   `json:"circles"`
	Route    *Polyline  `json:"route,omitempty"`
	Prompt   string     `json:"prompt,omitempty"`
	Summary  string     `json:"summary,omitempty"`
}

var defaultCircleOptions = CircleOptions{
	StrokeOpacity: 0.5,
	StrokeWeight:  2,
	Clickable:     false,
	Draggable:     false,
	Editable:      false,
	Visible:       true,
}

func bandCircle(band houses.Band, center def.Coordinate, radius float64, color string, zIndex int) Circle {
	options := defaultCircleOptions
	options.ZIndex = zIndex
	options.FillOpacity = 0.05
	options.StrokeColor = color
	options.FillColor = color
	return Circle{Band: band, Center: center, Radius: radius, Options: options}
}

// BandCircles returns the near, middle and far rings around the office,
// near drawn on top.
func BandCircles(office def.Coordinate) []Circle {
	return []Circle{
		bandCircle(houses.BandNear, office, houses.NearRadius, "#8BC34A", 3),
		bandCircle(houses.BandMiddle, office, houses.MiddleRadius, "#FBC02D", 2),
		bandCircle(houses.BandFar, office, houses.FarRadius, "#FF5252", 1),
	}
}

// Build lays out the canvas for one render.
func Build(state State, opts Options) Canvas {
	canvas := Canvas{
		Heading:  Heading,
		Viewport: state.Viewport,
		Options: MapOptions{
			MapID:            opts.MapID,
			DisableDefaultUI: true,
			ClickableIcons:   false,
		},
		Markers: []Marker{},
		Circles: []Circle{},
	}

	if office := state.Office; office != nil {
		canvas.Markers = append(canvas.Markers, Marker{
			Kind:     MarkerOffice,
			Position: *office,
			Icon:     OfficeIcon,
		})
		for _, house := range state.Houses {
			canvas.Markers = append(canvas.Markers, Marker{
				Kind:      MarkerHouse,
				Position:  house,
				Clickable: true,
				Band:      houses.BandOf(*office, house),
			})
		}
		canvas.Circles = BandCircles(*office)
	} else {
		canvas.Prompt = Prompt
	}

	if route := state.Route; route != nil && len(route.Routes) > 0 && route.Routes[0] != nil {
		first := route.Routes[0]
		canvas.Route = &Polyline{
			Encoded: first.Polyline,
			Path:    first.Path,
			Options: PolylineOptions{
				StrokeColor:  routeStrokeColor,
				StrokeWeight: routeStrokeWeight,
				ZIndex:       routeZIndex,
			},
		}
		if summary, ok := Summary(route.FirstLeg()); ok {
			canvas.Summary = summary
		}
	}
	return canvas
}
