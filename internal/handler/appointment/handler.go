package appointment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/appointment"
	"github.com/telemedpro/telemed/backend/internal/service/videocall"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// Handler 预约的HTTP处理器
type Handler struct {
	appointments *appointment.Service
	calls        *videocall.Service
	notices      *device.Notices
}

// New 创建预约处理器
func New(appointments *appointment.Service, calls *videocall.Service, notices *device.Notices) *Handler {
	return &Handler{appointments: appointments, calls: calls, notices: notices}
}

// RegisterRoutes 注册预约相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/appointments", h.handleList)
	r.Post("/appointments", h.handleBook)
	r.Get("/appointments/availability", h.handleAvailability)
	r.Get("/appointments/{id}", h.handleGet)
	r.Delete("/appointments/{id}", h.handleCancel)
	r.Post("/appointments/{id}/reschedule", h.handleReschedule)
	r.Post("/appointments/{id}/call", h.handleStartCall)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.appointments.List(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	item, err := h.appointments.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

// handleBook 创建新预约
func (h *Handler) handleBook(w http.ResponseWriter, r *http.Request) {
	var form record.BookingForm
	if err := utils.DecodeJSON(r, &form); err != nil {
		respond.Error(w, err, nil)
		return
	}
	item, err := h.appointments.Book(r.Context(), form)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusCreated, item)
}

// handleAvailability 返回可预约日期；提供 doctor 与 date 时附带空闲时段。
func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out := map[string]any{"dates": h.appointments.AvailableDates()}
	if doctorName, date := q.Get("doctor"), q.Get("date"); doctorName != "" && date != "" {
		out["times"] = h.appointments.AvailableSlots(r.Context(), doctorName, date)
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	if err := h.appointments.Cancel(r.Context(), id); err != nil {
		respond.Error(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	var payload struct {
		Option appointment.RescheduleOption `json:"option"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}
	item, err := h.appointments.Reschedule(r.Context(), id, payload.Option)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

// handleStartCall 为视频预约发起通话。
func (h *Handler) handleStartCall(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	target, err := h.appointments.VideoCallTarget(r.Context(), id)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	call, err := h.calls.Start(r.Context(), target.Doctor, target.Specialty)
	if err != nil {
		respond.Error(w, err, h.notices)
		return
	}
	respond.JSON(w, http.StatusCreated, call)
}
