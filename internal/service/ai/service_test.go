package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
	"github.com/telemedpro/telemed/backend/internal/model/chat"
	"github.com/telemedpro/telemed/backend/internal/model/doctor"
)

type fakeModel struct {
	mu       sync.Mutex
	failures int
	reply    string
	inputs   [][]*schema.Message
}

func (m *fakeModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.failures > 0 {
		m.failures--
		return nil, errors.New("upstream unavailable")
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *fakeModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

func newTestService(t *testing.T, fm *fakeModel, retries int) *Service {
	t.Helper()
	rules, err := intent.NewNamed(intent.Clinic)
	require.NoError(t, err)

	svc, err := NewServiceWithModel(context.Background(), fm, rules, retries)
	require.NoError(t, err)
	svc.backoff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return svc
}

func assistant(t *testing.T) doctor.Doctor {
	t.Helper()
	doc, ok := doctor.NewMemoryStore(doctor.Seed()).FindByID(doctor.AssistantID)
	require.True(t, ok)
	return doc
}

func TestReplyUsesModelAndRuleIntent(t *testing.T) {
	fm := &fakeModel{reply: "  Descansa y toma agua.  "}
	svc := newTestService(t, fm, 0)

	history := []chat.Message{
		{Sender: chat.SenderAssistant, Text: "Hola, como te sientes hoy?"},
	}
	reply, err := svc.Reply(context.Background(), assistant(t), history, "me duele la cabeza")
	require.NoError(t, err)
	assert.Equal(t, "Descansa y toma agua.", reply.Text)
	assert.Equal(t, "headache", reply.Intent)

	require.Equal(t, 1, fm.calls())
	input := fm.inputs[0]
	require.Len(t, input, 3)
	assert.Equal(t, schema.System, input[0].Role)
	assert.Contains(t, input[0].Content, "Dr. IA")
	assert.Contains(t, input[0].Content, "Respuesta de referencia")
	assert.Equal(t, schema.Assistant, input[1].Role)
	assert.Equal(t, "me duele la cabeza", input[2].Content)
}

func TestReplyRetriesTransientErrors(t *testing.T) {
	fm := &fakeModel{failures: 2, reply: "Listo"}
	svc := newTestService(t, fm, 2)

	reply, err := svc.Reply(context.Background(), assistant(t), nil, "hola")
	require.NoError(t, err)
	assert.Equal(t, "Listo", reply.Text)
	assert.Equal(t, 3, fm.calls())
}

func TestReplyGivesUpAfterRetries(t *testing.T) {
	fm := &fakeModel{failures: 5, reply: "nunca"}
	svc := newTestService(t, fm, 1)

	_, err := svc.Reply(context.Background(), assistant(t), nil, "hola")
	require.Error(t, err)
	assert.Equal(t, 2, fm.calls())
}

func TestReplyEmptyCompletionIsError(t *testing.T) {
	fm := &fakeModel{reply: "   "}
	svc := newTestService(t, fm, 0)

	_, err := svc.Reply(context.Background(), assistant(t), nil, "hola")
	assert.ErrorIs(t, err, errEmptyCompletion)
}

func TestReplyStopsOnCancelledContext(t *testing.T) {
	fm := &fakeModel{failures: 10, reply: "x"}
	svc := newTestService(t, fm, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Reply(ctx, assistant(t), nil, "hola")
	require.Error(t, err)
	assert.LessOrEqual(t, fm.calls(), 1)
}

func TestBuildHistoryMessagesKeepsTail(t *testing.T) {
	var msgs []chat.Message
	for i := 0; i < 15; i++ {
		msgs = append(msgs, chat.Message{Sender: chat.SenderUser, Text: strings.Repeat("a", i+1)})
	}
	msgs = append(msgs, chat.Message{Sender: chat.SenderUser, Attachment: &chat.Attachment{Kind: chat.AttachmentImage, URI: "file:///x.jpg"}})

	history := buildHistoryMessages(msgs)
	require.Len(t, history, historyLimit)
	assert.Equal(t, "[adjunto image]", history[len(history)-1].Content)
}

func TestPromptFallsBackToGenericTemplate(t *testing.T) {
	pm := NewDoctorPromptManager()
	prompt := pm.BuildSystemPrompt(doctor.Doctor{Name: "Dr. X", Specialty: "Oftalmología"}, "")
	assert.Contains(t, prompt, "asistente médico de TeleMed Pro")
	assert.NotContains(t, prompt, "Respuesta de referencia")

	prompt = pm.BuildSystemPrompt(doctor.Doctor{Name: "Dr. Y", Specialty: "Cardiología"}, "")
	assert.Contains(t, prompt, "Cualquier dolor torácico")
	assert.Contains(t, prompt, "131")
}
