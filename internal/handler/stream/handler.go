package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/model/chat"
	chatService "github.com/telemedpro/telemed/backend/internal/service/chat"
	"github.com/telemedpro/telemed/backend/pkg/log"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

const defaultHeartbeat = 15 * time.Second

// Handler pushes chat session events to clients via Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	heartbeat time.Duration
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc, heartbeat: defaultHeartbeat}
}

// RegisterRoutes 注册 SSE 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/sessions/{sessionID}/events", h.handleEvents)
}

// StreamResponse is the payload of the initial status event.
type StreamResponse struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId,omitempty"`
	Replying  bool   `json:"replying"`
}

// handleEvents 订阅会话事件直到客户端断开或会话关闭。
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	events, unsubscribe, err := h.chatSvc.Subscribe(sessionID)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	log.Debugw("sse stream opened", "session", sessionID)

	if err := utils.SendSSEEvent(w, flusher, "status", StreamResponse{
		Event:     "connected",
		SessionID: sessionID,
		Replying:  session.Replying,
	}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugw("sse stream closed by client", "session", sessionID)
			return
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, string(evt.Type), evt); err != nil {
				return
			}
			if evt.Type == chat.EventClosed {
				return
			}
		}
	}
}
