package prescription

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/prescription"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(prescription.NewService(record.SeedPrescriptions())).RegisterRoutes(r)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	return resp
}

func TestCRUD(t *testing.T) {
	r := setupRouter()

	resp := serve(r, http.MethodPost, "/prescriptions", `{"medication":"Loratadina","dosage":"10mg","frequency":"1 vez al día"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created record.Prescription
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = serve(r, http.MethodGet, "/prescriptions", "")
	var items []record.Prescription
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &items))
	require.Len(t, items, 4)
	assert.Equal(t, created.ID, items[0].ID)

	resp = serve(r, http.MethodPut, "/prescriptions/1", `{"medication":"Ibuprofeno","dosage":"600mg","frequency":"Cada 12 horas"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"dosage":"600mg"`)

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/prescriptions/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/prescriptions/1", "").Code)
}

func TestCreateValidation(t *testing.T) {
	r := setupRouter()
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/prescriptions", `{"medication":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/prescriptions", `not json`).Code)
}

func TestSummaryIsPlainText(t *testing.T) {
	resp := serve(setupRouter(), http.MethodGet, "/prescriptions/summary", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, resp.Body.String(), "3 recetas activas")
}
