package pages

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/VinothKuppanna/walkmap/internal/common"
	"github.com/VinothKuppanna/walkmap/internal/mapview"
	"github.com/gorilla/mux"
)

const (
	PathLanding = "/"
	PathMap     = "/map"
	PathStatic  = "/static/"

	title = "Walk to the office"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type page struct {
	Title   string
	Heading string
	Prompt  string
	APIKey  string
	MapID   string
	Gate    bool
}

type handler struct {
	apiKey  string
	mapID   string
	loadErr error
}

// NewHandler serves the page shell. loadErr is the reason the maps client
// could not be built, nil when it is usable.
func NewHandler(apiKey, mapID string, loadErr error) *handler {
	return &handler{apiKey, mapID, loadErr}
}

func (h *handler) render(resp http.ResponseWriter, name string, statusCode int, data *page) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		common.RespondWithError(err, resp, http.StatusInternalServerError)
		return
	}
	resp.Header().Set("Content-Type", "text/html; charset=utf-8")
	resp.WriteHeader(statusCode)
	_, _ = buf.WriteTo(resp)
}

func (h *handler) page(gate bool) *page {
	return &page{
		Title:   title,
		Heading: mapview.Heading,
		Prompt:  mapview.Prompt,
		APIKey:  h.apiKey,
		MapID:   h.mapID,
		Gate:    gate,
	}
}

// landing shows "Loading..." until the maps script is ready, or the
// not-configured state when there is no key.
func (h *handler) landing(resp http.ResponseWriter, _ *http.Request) {
	if h.loadErr != nil {
		h.render(resp, "unconfigured.html", http.StatusOK, h.page(false))
		return
	}
	h.render(resp, "map.html", http.StatusOK, h.page(true))
}

func (h *handler) mapScreen(resp http.ResponseWriter, _ *http.Request) {
	if h.loadErr != nil {
		h.render(resp, "unconfigured.html", http.StatusServiceUnavailable, h.page(false))
		return
	}
	h.render(resp, "map.html", http.StatusOK, h.page(false))
}

func (h *handler) SetupRouts(router *mux.Router) {
	static, _ := fs.Sub(staticFiles, "static")
	router.PathPrefix(PathStatic).Handler(http.StripPrefix(PathStatic, http.FileServer(http.FS(static)))).Methods(http.MethodGet)
	router.HandleFunc(PathLanding, h.landing).Methods(http.MethodGet)
	router.HandleFunc(PathMap, h.mapScreen).Methods(http.MethodGet)
}

// RequireConfigured answers 503 for every route it guards while loadErr is
// set.
func RequireConfigured(loadErr error) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if loadErr == nil {
			return next
		}
		return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
			common.RespondWithError(loadErr, resp, http.StatusServiceUnavailable)
		})
	}
}
