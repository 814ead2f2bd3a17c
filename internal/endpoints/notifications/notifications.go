package notifications

import (
	"net/http"

	"github.com/VinothKuppanna/walkmap/internal/common"
	"github.com/VinothKuppanna/walkmap/internal/middleware/session"
	"github.com/VinothKuppanna/walkmap/internal/notify"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const PathDrain = "/NotificationsService.Drain"

type drainResponse struct {
	Status string         `json:"status"`
	Toasts []notify.Toast `json:"toasts"`
}

func SetupRouts(router *mux.Router) {
	router.HandleFunc(PathDrain, drain).Methods(http.MethodGet)
}

// drain hands the page every toast queued since its last poll.
func drain(resp http.ResponseWriter, req *http.Request) {
	screen, ok := session.FromContext(req.Context())
	if !ok {
		common.RespondWithError(errors.New("no map session"), resp, http.StatusInternalServerError)
		return
	}
	_ = common.RespondWithJSON(resp, http.StatusOK, &drainResponse{
		Status: http.StatusText(http.StatusOK),
		Toasts: screen.Notifications().Drain(),
	})
}
