package doctor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	"github.com/telemedpro/telemed/backend/internal/model/record"
)

// Handler 医生目录的HTTP处理器
type Handler struct {
	doctors doctor.Store
}

// New 创建医生目录处理器
func New(doctors doctor.Store) *Handler {
	return &Handler{doctors: doctors}
}

// RegisterRoutes 注册医生相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/doctors", h.handleListDoctors)
	r.Get("/doctors/{doctorID}", h.handleGetDoctor)
	r.Get("/specialties", h.handleListSpecialties)
}

// handleListDoctors 列出医生，可按 specialty 过滤。
func (h *Handler) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	if specialty := r.URL.Query().Get("specialty"); specialty != "" {
		doctors := h.doctors.BySpecialty(specialty)
		if doctors == nil {
			doctors = []doctor.Doctor{}
		}
		respond.JSON(w, http.StatusOK, doctors)
		return
	}
	respond.JSON(w, http.StatusOK, h.doctors.List())
}

func (h *Handler) handleGetDoctor(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.doctors.FindByID(chi.URLParam(r, "doctorID"))
	if !ok {
		respond.Error(w, record.ErrNotFound, nil)
		return
	}
	respond.JSON(w, http.StatusOK, doc)
}

func (h *Handler) handleListSpecialties(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, doctor.Specialties())
}
