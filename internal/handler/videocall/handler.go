package videocall

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/service/videocall"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// Handler 视频通话的HTTP处理器
type Handler struct {
	calls   *videocall.Service
	notices *device.Notices
}

// New 创建视频通话处理器
func New(calls *videocall.Service, notices *device.Notices) *Handler {
	return &Handler{calls: calls, notices: notices}
}

// RegisterRoutes 注册视频通话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/calls", h.handleStart)
	r.Get("/calls/{callID}", h.handleGet)
	r.Post("/calls/{callID}/toggle", h.handleToggle)
	r.Post("/calls/{callID}/switch-camera", h.handleSwitchCamera)
	r.Delete("/calls/{callID}", h.handleEnd)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Doctor    string `json:"doctor"`
		Specialty string `json:"specialty"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}
	call, err := h.calls.Start(r.Context(), payload.Doctor, payload.Specialty)
	if err != nil {
		respond.Error(w, err, h.notices)
		return
	}
	respond.JSON(w, http.StatusCreated, call)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	call, err := h.calls.Get(chi.URLParam(r, "callID"))
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, call)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Control videocall.Control `json:"control"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}
	call, err := h.calls.Toggle(chi.URLParam(r, "callID"), payload.Control)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, call)
}

func (h *Handler) handleSwitchCamera(w http.ResponseWriter, r *http.Request) {
	call, err := h.calls.SwitchCamera(chi.URLParam(r, "callID"))
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, call)
}

// handleEnd 挂断并返回通话时长。
func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	summary, err := h.calls.End(chi.URLParam(r, "callID"))
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}
