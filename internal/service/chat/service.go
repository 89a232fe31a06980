package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
	"github.com/telemedpro/telemed/backend/internal/metrics"
	"github.com/telemedpro/telemed/backend/internal/model/chat"
	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrEmptyMessage      = errors.New("message text is required")
	ErrReplyPending      = errors.New("assistant is still replying")
	ErrMessageTooLong    = errors.New("message text exceeds 500 characters")
	ErrInvalidAttachment = errors.New("attachment needs kind image or document and a uri")
)

// MaxMessageLength is the longest accepted message text, in characters.
const MaxMessageLength = 500

// AttachmentIntent labels replies to messages that carried only an attachment.
const AttachmentIntent = "attachment"

// Responder produces the assistant reply for a user message. history holds
// the transcript before text was sent.
type Responder interface {
	Reply(ctx context.Context, doc doctor.Doctor, history []chat.Message, text string) (chat.Reply, error)
}

// RuleResponder adapts the keyword rule table to Responder.
type RuleResponder struct {
	rules *intent.Responder
}

// NewRuleResponder wraps rules as a Responder.
func NewRuleResponder(rules *intent.Responder) *RuleResponder {
	return &RuleResponder{rules: rules}
}

// Reply classifies text; it never fails.
func (r *RuleResponder) Reply(_ context.Context, _ doctor.Doctor, _ []chat.Message, text string) (chat.Reply, error) {
	m := r.rules.Classify(text)
	return chat.Reply{Text: m.Response, Intent: m.Rule}, nil
}

// Options configures a Service.
type Options struct {
	// ReplyDelay emulates the assistant typing before each reply.
	ReplyDelay time.Duration
	// EventBuffer is the per-subscriber channel capacity.
	EventBuffer int
	Doctors     doctor.Store
	Rules       *intent.Responder
	// Responder defaults to the rule table when nil.
	Responder Responder
}

// Service owns chat sessions and their append-only transcripts.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	doctors     doctor.Store
	rules       *intent.Responder
	responder   Responder
	delay       time.Duration
	eventBuffer int
	now         func() time.Time

	replies sync.WaitGroup
}

type session struct {
	mu       sync.Mutex
	info     chat.Session
	doctor   doctor.Doctor
	messages []chat.Message
	lastID   int64

	ctx     context.Context
	cancel  context.CancelFunc
	pending context.CancelFunc
	closed  bool

	subscribers map[int]chan chat.Event
	nextSub     int
}

// NewService builds the in-memory chat service.
func NewService(opts Options) *Service {
	responder := opts.Responder
	if responder == nil {
		responder = NewRuleResponder(opts.Rules)
	}
	buffer := opts.EventBuffer
	if buffer <= 0 {
		buffer = 16
	}
	delay := opts.ReplyDelay
	if delay < 0 {
		delay = 0
	}

	return &Service{
		sessions:    make(map[string]*session),
		doctors:     opts.Doctors,
		rules:       opts.Rules,
		responder:   responder,
		delay:       delay,
		eventBuffer: buffer,
		now:         time.Now,
	}
}

// CreateSession opens a chat with a doctor and seeds the doctor's opening line.
// An empty doctorID selects the virtual assistant.
func (s *Service) CreateSession(_ context.Context, doctorID string) (chat.Session, error) {
	if doctorID == "" {
		doctorID = doctor.AssistantID
	}
	doc, ok := s.doctors.FindByID(doctorID)
	if !ok {
		return chat.Session{}, ErrDoctorNotFound
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		info: chat.Session{
			ID:        uuid.NewString(),
			DoctorID:  doc.ID,
			CreatedAt: s.now().UTC(),
		},
		doctor:      doc,
		messages:    make([]chat.Message, 0, 16),
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[int]chan chat.Event),
	}
	sess.appendLocked(s.now(), chat.Message{Text: doc.OpeningLine, Sender: chat.SenderAssistant})

	s.mu.Lock()
	s.sessions[sess.info.ID] = sess
	s.mu.Unlock()

	log.Infow("chat session created", "session", sess.info.ID, "doctor", doc.ID)
	return sess.info, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.info, nil
}

// LoadTranscript returns a copy of the session's messages in order.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]chat.Message(nil), sess.messages...), nil
}

// Send appends a user message and schedules the assistant reply.
//
// Whitespace-only text without an attachment is refused before anything is
// recorded. Only one reply may be pending per session; a second send while
// the assistant is typing is refused with ErrReplyPending.
func (s *Service) Send(_ context.Context, sessionID, text string, attachment *chat.Attachment) (chat.Message, error) {
	if attachment != nil && !attachment.Valid() {
		metrics.SendsRejectedTotal.WithLabelValues("attachment").Inc()
		return chat.Message{}, ErrInvalidAttachment
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && attachment == nil {
		metrics.SendsRejectedTotal.WithLabelValues("empty").Inc()
		return chat.Message{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		metrics.SendsRejectedTotal.WithLabelValues("too_long").Inc()
		return chat.Message{}, ErrMessageTooLong
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return chat.Message{}, err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return chat.Message{}, ErrSessionNotFound
	}
	if sess.pending != nil {
		sess.mu.Unlock()
		metrics.SendsRejectedTotal.WithLabelValues("pending").Inc()
		return chat.Message{}, ErrReplyPending
	}

	history := append([]chat.Message(nil), sess.messages...)
	msg := sess.appendLocked(s.now(), chat.Message{
		Text:       text,
		Sender:     chat.SenderUser,
		Attachment: attachment,
	})

	replyCtx, cancel := context.WithCancel(sess.ctx)
	sess.pending = cancel
	sess.info.Replying = true
	sess.publishLocked(chat.Event{Type: chat.EventMessage, Message: &msg})
	sess.publishLocked(chat.Event{Type: chat.EventTyping, Typing: true})
	// Add under sess.mu so Shutdown, which closes the session first, waits for it.
	s.replies.Add(1)
	sess.mu.Unlock()

	go s.deliverReply(replyCtx, sess, history, text, trimmed == "")

	return msg, nil
}

func (s *Service) deliverReply(ctx context.Context, sess *session, history []chat.Message, text string, attachmentOnly bool) {
	defer s.replies.Done()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		metrics.RepliesCancelledTotal.Inc()
		return
	case <-timer.C:
	}

	reply := s.compose(ctx, sess.doctor, history, text, attachmentOnly)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed || ctx.Err() != nil {
		metrics.RepliesCancelledTotal.Inc()
		return
	}

	msg := sess.appendLocked(s.now(), chat.Message{
		Text:   reply.Text,
		Sender: chat.SenderAssistant,
		Intent: reply.Intent,
	})
	sess.pending()
	sess.pending = nil
	sess.info.Replying = false
	sess.publishLocked(chat.Event{Type: chat.EventTyping, Typing: false})
	sess.publishLocked(chat.Event{Type: chat.EventMessage, Message: &msg})

	metrics.RepliesTotal.WithLabelValues(reply.Intent).Inc()
	log.Debugw("assistant replied", "session", sess.info.ID, "intent", reply.Intent)
}

func (s *Service) compose(ctx context.Context, doc doctor.Doctor, history []chat.Message, text string, attachmentOnly bool) chat.Reply {
	if attachmentOnly {
		return chat.Reply{Text: intent.AttachmentReply(), Intent: AttachmentIntent}
	}

	reply, err := s.responder.Reply(ctx, doc, history, text)
	if err == nil && strings.TrimSpace(reply.Text) != "" {
		return reply
	}
	if ctx.Err() == nil {
		log.Warnw("responder failed, using rule table", "error", err)
		metrics.ResponderFallbacksTotal.WithLabelValues("primary").Inc()
	}
	m := s.rules.Classify(text)
	return chat.Reply{Text: m.Response, Intent: m.Rule}
}

// Classify runs the rule table without touching any session.
func (s *Service) Classify(text string) intent.Match {
	return s.rules.Classify(text)
}

// Subscribe streams session events until cancel is called or the session closes.
func (s *Service) Subscribe(sessionID string) (<-chan chat.Event, func(), error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, nil, ErrSessionNotFound
	}

	id := sess.nextSub
	sess.nextSub++
	ch := make(chan chat.Event, s.eventBuffer)
	sess.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			sess.mu.Lock()
			defer sess.mu.Unlock()
			if c, ok := sess.subscribers[id]; ok {
				delete(sess.subscribers, id)
				close(c)
			}
		})
	}
	return ch, cancel, nil
}

// CloseSession tears a session down; a reply still being typed is discarded.
func (s *Service) CloseSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.close()
	log.Infow("chat session closed", "session", sessionID)
	return nil
}

// Shutdown closes every session and waits for scheduled replies to unwind.
func (s *Service) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
	s.replies.Wait()
}

func (s *Service) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (sess *session) close() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return
	}
	sess.closed = true
	sess.cancel()
	sess.pending = nil
	sess.info.Replying = false
	sess.publishLocked(chat.Event{Type: chat.EventClosed})
	for id, ch := range sess.subscribers {
		delete(sess.subscribers, id)
		close(ch)
	}
}

// appendLocked stamps id, session and time onto msg and appends it.
// IDs follow creation time in milliseconds and stay strictly increasing.
func (sess *session) appendLocked(now time.Time, msg chat.Message) chat.Message {
	id := now.UnixMilli()
	if id <= sess.lastID {
		id = sess.lastID + 1
	}
	sess.lastID = id

	msg.ID = id
	msg.SessionID = sess.info.ID
	msg.CreatedAt = now.UTC()
	msg.Timestamp = now.Format("15:04")
	sess.messages = append(sess.messages, msg)
	return msg
}

func (sess *session) publishLocked(evt chat.Event) {
	evt.SessionID = sess.info.ID
	for _, ch := range sess.subscribers {
		select {
		case ch <- evt:
		default:
			log.Warnw("dropping chat event for slow subscriber", "session", sess.info.ID, "type", evt.Type)
		}
	}
}
