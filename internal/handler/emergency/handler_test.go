package emergency

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/emergency"
	"github.com/telemedpro/telemed/backend/internal/service/profile"
)

func setupRouter() (*chi.Mux, *device.Simulated) {
	caps := device.NewSimulated(device.Coordinates{Latitude: -33.45, Longitude: -70.66}, "Plaza de Armas, Santiago")
	notices := device.NewNotices()
	profiles := profile.NewService(record.SeedProfile(), caps)

	r := chi.NewRouter()
	New(emergency.NewService(profiles, caps, notices), notices).RegisterRoutes(r)
	return r, caps
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	return resp
}

func TestActivateRequiresConfirmation(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodPost, "/emergency/activate", `{"confirmed":false}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"active":false}`, serve(r, http.MethodGet, "/emergency/status", "").Body.String())
}

func TestActivateAndResolve(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodPost, "/emergency/activate", `{"confirmed":true}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var dispatch emergency.Dispatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dispatch))
	assert.Equal(t, "Plaza de Armas, Santiago", dispatch.Location)
	assert.Equal(t, "tel:131", dispatch.DialURI)
	assert.Empty(t, dispatch.Notices)

	assert.JSONEq(t, `{"active":true}`, serve(r, http.MethodGet, "/emergency/status", "").Body.String())
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/emergency/resolve", "").Code)
	assert.JSONEq(t, `{"active":false}`, serve(r, http.MethodGet, "/emergency/status", "").Body.String())
}

func TestActivateWithoutLocation(t *testing.T) {
	r, caps := setupRouter()
	caps.SetPermission(device.Location, false)

	resp := serve(r, http.MethodPost, "/emergency/activate", `{"confirmed":true}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var dispatch emergency.Dispatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dispatch))
	assert.Equal(t, "Av. Principal 123, Santiago, Chile", dispatch.Location)
	assert.Nil(t, dispatch.Coordinates)
	require.Len(t, dispatch.Notices, 1)
	assert.Equal(t, device.Location, dispatch.Notices[0].Capability)
}

func TestCalls(t *testing.T) {
	r, caps := setupRouter()

	resp := serve(r, http.MethodPost, "/emergency/call", `{"number":"133"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"uri":"tel:133"}`, resp.Body.String())

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/emergency/call", `{"number":"999"}`).Code)

	resp = serve(r, http.MethodPost, "/emergency/call-contact", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"uri":"tel:+56987654321"}`, resp.Body.String())

	caps.SetPermission(device.Telephony, false)
	resp = serve(r, http.MethodPost, "/emergency/call-contact", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "notice")
}

func TestNumbersAndPatient(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodGet, "/emergency/numbers", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var numbers []emergency.Number
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &numbers))
	assert.Len(t, numbers, 3)

	resp = serve(r, http.MethodGet, "/emergency/patient", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"bloodType":"O+"`)
}
