package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/model/chat"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text       string           `json:"text"`
	Attachment *chat.Attachment `json:"attachment,omitempty"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// wsConn serialises writes; gorilla allows one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(msg outgoingMessage) error {
	msg.Timestamp = time.Now().Unix()
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

// handleWebSocket 将会话事件推送给客户端，并接收客户端发送的消息。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		respond.Error(w, err, nil)
		return
	}

	events, unsubscribe, err := h.chatSvc.Subscribe(sessionID)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	defer unsubscribe()

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnw("websocket upgrade failed", "session", sessionID, "error", err)
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	log.Infow("websocket connected", "session", sessionID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = raw.SetReadDeadline(time.Now().Add(readTimeout))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(readTimeout))
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.pingLoop(ctx, raw)
	}()
	go func() {
		defer wg.Done()
		h.forwardEvents(ctx, conn, events)
		cancel()
		// unblock ReadJSON once the session is gone
		_ = raw.Close()
	}()
	defer wg.Wait()

	h.sendInfo(conn, sessionID, map[string]any{"type": "connected"})

	for {
		var msg inboundMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnw("websocket read failed", "session", sessionID, "error", err)
			}
			cancel()
			return
		}
		_ = raw.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(conn, "session mismatch")
			continue
		}
		h.handleMessage(r.Context(), conn, sessionID, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *wsConn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "message":
		var payload TextMessage
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.sendError(conn, "invalid message payload")
			return
		}
		sent, err := h.chatSvc.Send(ctx, sessionID, payload.Text, payload.Attachment)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.sendInfo(conn, sessionID, map[string]any{"type": "accepted", "messageId": sent.ID})
	case "ping":
		h.sendInfo(conn, sessionID, map[string]any{"type": "pong"})
	default:
		h.sendError(conn, "unsupported message type")
	}
}

// forwardEvents 返回时表示会话已关闭或连接已结束。
func (h *Handler) forwardEvents(ctx context.Context, conn *wsConn, events <-chan chat.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := conn.write(outgoingMessage{Type: "event", SessionID: evt.SessionID, Data: evt}); err != nil {
				return
			}
			if evt.Type == chat.EventClosed {
				_ = conn.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeTimeout))
				return
			}
		}
	}
}

func (h *Handler) sendInfo(conn *wsConn, sessionID string, data map[string]any) {
	if err := conn.write(outgoingMessage{Type: "result", SessionID: sessionID, Data: data}); err != nil {
		log.Warnw("websocket write info failed", "error", err)
	}
}

func (h *Handler) sendError(conn *wsConn, message string) {
	if err := conn.write(outgoingMessage{Type: "error", Data: map[string]string{"message": message}}); err != nil {
		log.Warnw("websocket write error failed", "error", err)
	}
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
