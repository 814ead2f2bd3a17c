package healthcheck

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/VinothKuppanna/walkmap/internal/common"
	"github.com/gorilla/mux"
)

const (
	PathHealthCheck = "/health-check"
	checkTimeout    = 2 * time.Second
)

// Check pings one optional dependency.
type Check func(ctx context.Context) error

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type handler struct {
	checks map[string]Check
}

func NewHandler(checks map[string]Check) *handler {
	return &handler{checks}
}

func SetupRouts(router *mux.Router) {
	NewHandler(nil).SetupRouts(router)
}

func (h *handler) SetupRouts(router *mux.Router) {
	router.HandleFunc(PathHealthCheck, h.healthCheck).Methods(http.MethodGet)
}

func (h *handler) healthCheck(writer http.ResponseWriter, request *http.Request) {
	if len(h.checks) == 0 {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(http.StatusText(http.StatusOK)))
		return
	}
	ctx, cancel := context.WithTimeout(request.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	statusCode := http.StatusOK
	response := &healthResponse{Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			response.Checks[name] = err.Error()
			statusCode = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}
	response.Status = http.StatusText(statusCode)
	_ = common.RespondWithJSON(writer, statusCode, response)
}
