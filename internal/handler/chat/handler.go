package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/model/chat"
	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	chatService "github.com/telemedpro/telemed/backend/internal/service/chat"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

var errUnknownSource = errors.New("source must be camera, library or document")

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc  *chatService.Service
	doctors  doctor.Store
	device   device.Capabilities
	notices  *device.Notices
	upgrader websocket.Upgrader
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, doctors doctor.Store, caps device.Capabilities, notices *device.Notices) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		doctors: doctors,
		device:  caps,
		notices: notices,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/classify", h.handleClassify)
	r.Post("/chat/sessions", h.handleCreateSession)
	r.Get("/chat/sessions/{sessionID}", h.handleGetSession)
	r.Delete("/chat/sessions/{sessionID}", h.handleCloseSession)
	r.Get("/chat/sessions/{sessionID}/messages", h.handleListMessages)
	r.Post("/chat/sessions/{sessionID}/messages", h.handleSendMessage)
	r.Post("/chat/sessions/{sessionID}/attachments", h.handleSendAttachment)
	r.Get("/chat/sessions/{sessionID}/ws", h.handleWebSocket)
}

type sessionView struct {
	Session  chat.Session   `json:"session"`
	Doctor   *doctor.Doctor `json:"doctor,omitempty"`
	Messages []chat.Message `json:"messages"`
}

// handleCreateSession 创建会话；doctorId 为空时使用虚拟助手。
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DoctorID string `json:"doctorId"`
	}
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &payload); err != nil {
			respond.Error(w, err, nil)
			return
		}
	}

	session, err := h.chatSvc.CreateSession(r.Context(), strings.TrimSpace(payload.DoctorID))
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	view, err := h.view(r, session)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusCreated, view)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	view, err := h.view(r, session)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respond.Error(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, messages)
}

// handleSendMessage 追加用户消息，回复通过事件流异步送达。
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text       string           `json:"text"`
		Attachment *chat.Attachment `json:"attachment"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}

	msg, err := h.chatSvc.Send(r.Context(), chi.URLParam(r, "sessionID"), payload.Text, payload.Attachment)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusAccepted, msg)
}

// handleSendAttachment 通过设备能力获取图片或文档并作为消息发送。
func (h *Handler) handleSendAttachment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Source string `json:"source"`
		Text   string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}

	var (
		media device.Media
		err   error
		kind  chat.AttachmentKind
	)
	switch payload.Source {
	case "camera":
		media, err = h.device.CapturePhoto(r.Context())
		kind = chat.AttachmentImage
	case "library":
		media, err = h.device.PickPhoto(r.Context())
		kind = chat.AttachmentImage
	case "document":
		media, err = h.device.PickDocument(r.Context())
		kind = chat.AttachmentDocument
	default:
		utils.RespondError(w, http.StatusBadRequest, errUnknownSource.Error())
		return
	}
	if err != nil {
		respond.Error(w, err, h.notices)
		return
	}

	msg, err := h.chatSvc.Send(r.Context(), chi.URLParam(r, "sessionID"), payload.Text, &chat.Attachment{Kind: kind, URI: media.URI})
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusAccepted, msg)
}

func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, h.chatSvc.Classify(payload.Text))
}

func (h *Handler) view(r *http.Request, session chat.Session) (sessionView, error) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), session.ID)
	if err != nil {
		return sessionView{}, err
	}
	view := sessionView{Session: session, Messages: messages}
	if doc, ok := h.doctors.FindByID(session.DoctorID); ok {
		view.Doctor = &doc
	}
	return view, nil
}
