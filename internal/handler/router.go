package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telemedpro/telemed/backend/internal/device"
	appointmentHandler "github.com/telemedpro/telemed/backend/internal/handler/appointment"
	authHandler "github.com/telemedpro/telemed/backend/internal/handler/auth"
	chatHandler "github.com/telemedpro/telemed/backend/internal/handler/chat"
	deviceHandler "github.com/telemedpro/telemed/backend/internal/handler/device"
	doctorHandler "github.com/telemedpro/telemed/backend/internal/handler/doctor"
	emergencyHandler "github.com/telemedpro/telemed/backend/internal/handler/emergency"
	homeHandler "github.com/telemedpro/telemed/backend/internal/handler/home"
	prescriptionHandler "github.com/telemedpro/telemed/backend/internal/handler/prescription"
	profileHandler "github.com/telemedpro/telemed/backend/internal/handler/profile"
	"github.com/telemedpro/telemed/backend/internal/handler/stream"
	videocallHandler "github.com/telemedpro/telemed/backend/internal/handler/videocall"
	middlewarePkg "github.com/telemedpro/telemed/backend/internal/middleware"
	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	"github.com/telemedpro/telemed/backend/internal/service/appointment"
	"github.com/telemedpro/telemed/backend/internal/service/auth"
	"github.com/telemedpro/telemed/backend/internal/service/chat"
	"github.com/telemedpro/telemed/backend/internal/service/emergency"
	"github.com/telemedpro/telemed/backend/internal/service/prescription"
	"github.com/telemedpro/telemed/backend/internal/service/profile"
	"github.com/telemedpro/telemed/backend/internal/service/videocall"
	"github.com/telemedpro/telemed/backend/pkg/token"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// Services 汇总路由需要的核心服务。
type Services struct {
	Doctors       doctor.Store
	Device        *device.Simulated
	Notices       *device.Notices
	Tokens        *token.Manager
	Auth          *auth.Service
	Chat          *chat.Service
	Appointments  *appointment.Service
	Prescriptions *prescription.Service
	Profile       *profile.Service
	Emergency     *emergency.Service
	Calls         *videocall.Service
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		authHandler.New(svc.Auth).RegisterRoutes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(middlewarePkg.Auth(svc.Tokens))

			homeHandler.New(svc.Appointments, svc.Prescriptions, svc.Profile).RegisterRoutes(protected)
			doctorHandler.New(svc.Doctors).RegisterRoutes(protected)
			chatHandler.New(svc.Chat, svc.Doctors, svc.Device, svc.Notices).RegisterRoutes(protected)
			stream.New(svc.Chat).RegisterRoutes(protected)
			appointmentHandler.New(svc.Appointments, svc.Calls, svc.Notices).RegisterRoutes(protected)
			prescriptionHandler.New(svc.Prescriptions).RegisterRoutes(protected)
			profileHandler.New(svc.Profile, svc.Notices).RegisterRoutes(protected)
			emergencyHandler.New(svc.Emergency, svc.Notices).RegisterRoutes(protected)
			videocallHandler.New(svc.Calls, svc.Notices).RegisterRoutes(protected)
			deviceHandler.New(svc.Device, svc.Notices).RegisterRoutes(protected)
		})
	})

	return r
}
