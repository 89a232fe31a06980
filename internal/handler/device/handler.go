package device

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// PermissionStore is the part of the device layer that exposes grants.
type PermissionStore interface {
	Permissions() map[device.Capability]bool
	SetPermission(c device.Capability, granted bool)
}

// Handler 设备权限的HTTP处理器
type Handler struct {
	store   PermissionStore
	notices *device.Notices
}

// New 创建设备权限处理器
func New(store PermissionStore, notices *device.Notices) *Handler {
	return &Handler{store: store, notices: notices}
}

// RegisterRoutes 注册设备权限路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/device/permissions", h.handleGet)
	r.Put("/device/permissions", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.store.Permissions())
}

// handleUpdate 接收部分更新，如 {"camera": false}。
// 权限变化后该能力的提示可以再次显示。
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload map[string]bool
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}

	updates := make(map[device.Capability]bool, len(payload))
	for name, granted := range payload {
		c, err := device.ParseCapability(name)
		if err != nil {
			respond.Error(w, err, nil)
			return
		}
		updates[c] = granted
	}

	current := h.store.Permissions()
	for c, granted := range updates {
		if current[c] != granted {
			h.store.SetPermission(c, granted)
			h.notices.Reset(c)
		}
	}
	respond.JSON(w, http.StatusOK, h.store.Permissions())
}
