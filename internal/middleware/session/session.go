// Package session binds each browser to its own map screen through a cookie.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/VinothKuppanna/walkmap/internal/mapscreen"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
)

const (
	CookieName = "walkmap_session"
	DefaultTTL = 30 * time.Minute
)

type contextKey struct{}

// Factory builds the screen for a new session id.
type Factory func(id string) *mapscreen.Screen

type Store struct {
	screens *cache.Cache
	factory Factory
	ttl     time.Duration
	logger  log.Logger
	mu      sync.Mutex
}

// NewStore keeps screens for ttl after their last use. onEvict runs once a
// session expires.
func NewStore(factory Factory, ttl time.Duration, onEvict func(id string), logger log.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Store{
		screens: cache.New(ttl, ttl/2),
		factory: factory,
		ttl:     ttl,
		logger:  log.With(logger, "component", "sessions"),
	}
	s.screens.OnEvicted(func(id string, _ interface{}) {
		level.Debug(s.logger).Log("msg", "session evicted", "session", id)
		if onEvict != nil {
			onEvict(id)
		}
	})
	return s
}

// Get returns the screen of id and extends its lifetime.
func (s *Store) Get(id string) (*mapscreen.Screen, bool) {
	value, ok := s.screens.Get(id)
	if !ok {
		return nil, false
	}
	screen := value.(*mapscreen.Screen)
	s.screens.Set(id, screen, s.ttl)
	return screen, true
}

func (s *Store) Create() *mapscreen.Screen {
	id := uuid.New().String()
	screen := s.factory(id)
	s.screens.Set(id, screen, s.ttl)
	level.Debug(s.logger).Log("msg", "session created", "session", id)
	return screen
}

func (s *Store) Count() int {
	return s.screens.ItemCount()
}

func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		screen := s.resolve(req)
		if screen == nil {
			s.mu.Lock()
			if screen = s.resolve(req); screen == nil {
				screen = s.Create()
			}
			s.mu.Unlock()
			http.SetCookie(resp, &http.Cookie{
				Name:     CookieName,
				Value:    screen.ID(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(resp, req.WithContext(NewContext(req.Context(), screen)))
	})
}

func (s *Store) resolve(req *http.Request) *mapscreen.Screen {
	cookie, err := req.Cookie(CookieName)
	if err != nil || len(cookie.Value) == 0 {
		return nil
	}
	screen, _ := s.Get(cookie.Value)
	return screen
}

func (s *Store) Setup(router *mux.Router) {
	router.Use(s.Middleware)
}

func NewContext(ctx context.Context, screen *mapscreen.Screen) context.Context {
	return context.WithValue(ctx, contextKey{}, screen)
}

func FromContext(ctx context.Context) (*mapscreen.Screen, bool) {
	screen, ok := ctx.Value(contextKey{}).(*mapscreen.Screen)
	return screen, ok && screen != nil
}
