package profile

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
	"github.com/telemedpro/telemed/backend/internal/service/profile"
)

func setupRouter() (*chi.Mux, *device.Simulated) {
	caps := device.NewSimulated(device.Coordinates{}, "")
	r := chi.NewRouter()
	New(profile.NewService(record.SeedProfile(), caps), device.NewNotices()).RegisterRoutes(r)
	return r, caps
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	return resp
}

func TestGetProfile(t *testing.T) {
	r, _ := setupRouter()
	resp := serve(r, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var p record.Profile
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &p))
	assert.Equal(t, "Kevin Rodas", p.User.FullName)
	assert.Len(t, p.Contacts, 3)
}

func TestMedicalItems(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodPost, "/profile/medical/allergies", `{"value":"Látex"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Látex")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodDelete, "/profile/medical/conditions/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodDelete, "/profile/medical/conditions/7", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodDelete, "/profile/medical/conditions/x", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPost, "/profile/medical/hobbies", `{"value":"golf"}`).Code)
}

func TestContacts(t *testing.T) {
	r, caps := setupRouter()

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/profile/contacts", `{"name":"Ana"}`).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/profile/contacts", `{"name":"Ana","phone":"+56911110000"}`).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPut, "/profile/contacts/4", `{"name":"Ana R.","phone":"+56911110000"}`).Code)

	resp := serve(r, http.MethodPost, "/profile/contacts/4/call", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"uri":"tel:+56911110000"}`, resp.Body.String())

	caps.SetPermission(device.Telephony, false)
	resp = serve(r, http.MethodPost, "/profile/contacts/4/call", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/profile/contacts/4", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/profile/contacts/4", "").Code)
}

func TestChangePhotoDenied(t *testing.T) {
	r, caps := setupRouter()
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/profile/photo", "").Code)

	caps.SetPermission(device.PhotoLibrary, false)
	resp := serve(r, http.MethodPost, "/profile/photo", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "photo_library")
}
