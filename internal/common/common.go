package common

import (
	"encoding/json"
	"net/http"

	"github.com/VinothKuppanna/walkmap/pkg/data/model"
)

const contentTypeJSON = "application/json; charset=utf-8"

// RespondWithError writes the status envelope for err and reports whether
// anything was written.
func RespondWithError(err error, resp http.ResponseWriter, statusCode int) bool {
	if err == nil {
		return false
	}
	resp.Header().Set("Content-Type", contentTypeJSON)
	resp.WriteHeader(statusCode)
	_ = json.NewEncoder(resp).Encode(&model.BaseResponse{
		Status:  http.StatusText(statusCode),
		Message: err.Error(),
	})
	return true
}

// RespondWithJSON writes body with the given status code.
func RespondWithJSON(resp http.ResponseWriter, statusCode int, body interface{}) error {
	resp.Header().Set("Content-Type", contentTypeJSON)
	resp.WriteHeader(statusCode)
	return json.NewEncoder(resp).Encode(body)
}

type responseWriter struct {
	http.ResponseWriter
	status        int
	error         []byte
	headerWritten bool
}

func WrapResponse(response http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: response}
}

// Status returns the written status code, 200 when the handler never set one.
func (rw *responseWriter) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

func (rw *responseWriter) Error() []byte {
	return rw.error
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.headerWritten {
		return
	}
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
	rw.headerWritten = true
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	if rw.status >= http.StatusBadRequest {
		rw.error = append(rw.error, p...)
	}
	return rw.ResponseWriter.Write(p)
}
