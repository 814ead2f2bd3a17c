package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(register func(*mux.Router)) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	register(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathHealthCheck, nil))
	return rec
}

func TestHealthCheck_Plain(t *testing.T) {
	rec := serve(SetupRouts)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHealthCheck_Checks(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	rec := serve(NewHandler(map[string]Check{"redis": healthy}).SetupRouts)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(NewHandler(map[string]Check{"redis": healthy, "nsqd": broken}).SetupRouts)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Service Unavailable", body.Status)
	assert.Equal(t, "ok", body.Checks["redis"])
	assert.Equal(t, "connection refused", body.Checks["nsqd"])
}
