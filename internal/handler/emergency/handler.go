package emergency

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/service/emergency"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// Handler 紧急求助的HTTP处理器
type Handler struct {
	emergencies *emergency.Service
	notices     *device.Notices
}

// New 创建紧急求助处理器
func New(emergencies *emergency.Service, notices *device.Notices) *Handler {
	return &Handler{emergencies: emergencies, notices: notices}
}

// RegisterRoutes 注册紧急求助相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/emergency/patient", h.handlePatient)
	r.Get("/emergency/numbers", h.handleNumbers)
	r.Get("/emergency/status", h.handleStatus)
	r.Post("/emergency/activate", h.handleActivate)
	r.Post("/emergency/resolve", h.handleResolve)
	r.Post("/emergency/call-contact", h.handleCallContact)
	r.Post("/emergency/call", h.handleCall)
}

func (h *Handler) handlePatient(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.emergencies.Patient(r.Context()))
}

func (h *Handler) handleNumbers(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, emergency.Numbers())
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]bool{"active": h.emergencies.Active()})
}

// handleActivate 必须显式确认，避免误触发。
func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}
	dispatch, err := h.emergencies.Activate(r.Context(), payload.Confirmed)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, dispatch)
}

func (h *Handler) handleResolve(w http.ResponseWriter, _ *http.Request) {
	h.emergencies.Resolve()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCallContact(w http.ResponseWriter, r *http.Request) {
	uri, err := h.emergencies.CallContact(r.Context())
	if err != nil {
		respond.Error(w, err, h.notices)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"uri": uri})
}

func (h *Handler) handleCall(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Number string `json:"number"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}
	uri, err := h.emergencies.Call(r.Context(), payload.Number)
	if err != nil {
		respond.Error(w, err, h.notices)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"uri": uri})
}
