package home

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/middleware"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/appointment"
	"github.com/telemedpro/telemed/backend/internal/service/prescription"
	"github.com/telemedpro/telemed/backend/internal/service/profile"
)

// upcomingLimit 首页显示的近期预约数量
const upcomingLimit = 3

// QuickAction 首页快捷入口
type QuickAction struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Route string `json:"route"`
}

var quickActions = []QuickAction{
	{ID: "chat", Title: "Consulta con IA", Route: "/chat"},
	{ID: "appointments", Title: "Agendar cita", Route: "/appointments"},
	{ID: "prescriptions", Title: "Mis recetas", Route: "/prescriptions"},
	{ID: "emergency", Title: "Emergencia", Route: "/emergency"},
}

// Summary 首页数据
type Summary struct {
	UserName            string               `json:"userName"`
	Upcoming            []record.Appointment `json:"upcoming"`
	ActivePrescriptions int                  `json:"activePrescriptions"`
	QuickActions        []QuickAction        `json:"quickActions"`
}

// Handler 首页的HTTP处理器
type Handler struct {
	appointments  *appointment.Service
	prescriptions *prescription.Service
	profiles      *profile.Service
}

// New 创建首页处理器
func New(appointments *appointment.Service, prescriptions *prescription.Service, profiles *profile.Service) *Handler {
	return &Handler{appointments: appointments, prescriptions: prescriptions, profiles: profiles}
}

// RegisterRoutes 注册首页路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/home", h.handleHome)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := h.profiles.Get(ctx).User.FullName
	if claims, ok := middleware.ClaimsFromContext(ctx); ok && claims.Name != "" {
		name = claims.Name
	}

	respond.JSON(w, http.StatusOK, Summary{
		UserName:            name,
		Upcoming:            h.appointments.Upcoming(ctx, upcomingLimit),
		ActivePrescriptions: len(h.prescriptions.List(ctx)),
		QuickActions:        quickActions,
	})
}
