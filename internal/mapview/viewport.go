package mapview

import (
	"sync"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
)

const DefaultZoom = 10

// DefaultCenter is where the map opens before any office is chosen.
var DefaultCenter = def.Coordinate{Lat: 41, Lng: 286}

type Viewport struct {
	Center def.Coordinate `json:"center"`
	Zoom   int            `json:"zoom"`
}

// Handle is the live viewport a screen pans. It is captured once when the
// screen is created and shared by every render afterwards.
type Handle struct {
	mu       sync.RWMutex
	viewport Viewport
}

func NewHandle(center def.Coordinate, zoom int) *Handle {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &Handle{viewport: Viewport{Center: center, Zoom: zoom}}
}

// PanTo moves the center and keeps the zoom level.
func (h *Handle) PanTo(c def.Coordinate) {
	h.mu.Lock()
	h.viewport.Center = c
	h.mu.Unlock()
}

func (h *Handle) Viewport() Viewport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.viewport
}
