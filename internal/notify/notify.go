package notify

import (
	"sync"
	"time"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"go.uber.org/atomic"
)

const (
	DefaultPosition    = "top-right"
	DefaultAutoCloseMs = 2000
	DefaultTheme       = "dark"
	DefaultCapacity    = 16

	RouteStarted = "Starting route!"
)

type Toast struct {
	ID        uint64            `json:"id"`
	Message   string            `json:"message"`
	Options   def.NotifyOptions `json:"options"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Center queues toasts for one visitor until the page drains them. When the
// queue is full the oldest toast is dropped.
type Center struct {
	capacity int
	ids      *atomic.Uint64
	now      func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

func NewCenter(capacity int) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{
		capacity: capacity,
		ids:      atomic.NewUint64(0),
		now:      time.Now,
	}
}

func (c *Center) Notify(message string, options def.NotifyOptions) {
	toast := Toast{
		ID:        c.ids.Inc(),
		Message:   message,
		Options:   options,
		CreatedAt: c.now(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.toasts) == c.capacity {
		c.toasts = c.toasts[1:]
	}
	c.toasts = append(c.toasts, toast)
}

// Drain hands over every pending toast and empties the queue.
func (c *Center) Drain() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	toasts := c.toasts
	c.toasts = nil
	if toasts == nil {
		return []Toast{}
	}
	return toasts
}

func (c *Center) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.toasts)
}

// Defaults builds toast options for a kind using the configured placement.
type Defaults struct {
	Position    string
	AutoCloseMs int
	Theme       string
}

func (d Defaults) Options(kind def.NotifyKind) def.NotifyOptions {
	position := d.Position
	if position == "" {
		position = DefaultPosition
	}
	autoClose := d.AutoCloseMs
	if autoClose <= 0 {
		autoClose = DefaultAutoCloseMs
	}
	theme := d.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	return def.NotifyOptions{
		Kind:            kind,
		Position:        position,
		AutoCloseMs:     autoClose,
		HideProgressBar: true,
		CloseOnClick:    true,
		PauseOnHover:    true,
		Draggable:       true,
		Theme:           theme,
	}
}
