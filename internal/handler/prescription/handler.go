package prescription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/service/prescription"
	"github.com/telemedpro/telemed/backend/pkg/log"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// Handler 处方的HTTP处理器
type Handler struct {
	prescriptions *prescription.Service
}

// New 创建处方处理器
func New(prescriptions *prescription.Service) *Handler {
	return &Handler{prescriptions: prescriptions}
}

// RegisterRoutes 注册处方相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/prescriptions", h.handleList)
	r.Post("/prescriptions", h.handleCreate)
	r.Get("/prescriptions/summary", h.handleSummary)
	r.Get("/prescriptions/{id}", h.handleGet)
	r.Put("/prescriptions/{id}", h.handleUpdate)
	r.Delete("/prescriptions/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.prescriptions.List(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	item, err := h.prescriptions.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in prescription.Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		respond.Error(w, err, nil)
		return
	}
	item, err := h.prescriptions.Create(r.Context(), in)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	var in prescription.Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		respond.Error(w, err, nil)
		return
	}
	item, err := h.prescriptions.Update(r.Context(), id, in)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	if err := h.prescriptions.Delete(r.Context(), id); err != nil {
		respond.Error(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSummary 以纯文本导出全部处方，供分享使用。
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.prescriptions.Summary(r.Context()))); err != nil {
		log.Warnw("failed to write prescription summary", "error", err)
	}
}
