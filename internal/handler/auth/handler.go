package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/service/auth"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// Handler 登录的HTTP处理器
type Handler struct {
	auth *auth.Service
}

// New 创建登录处理器
func New(authSvc *auth.Service) *Handler {
	return &Handler{auth: authSvc}
}

// RegisterRoutes 注册公开的登录路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err, nil)
		return
	}
	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, session)
}
