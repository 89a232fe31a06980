package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
	"github.com/telemedpro/telemed/backend/internal/config"
	"github.com/telemedpro/telemed/backend/internal/model/chat"
	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	"github.com/telemedpro/telemed/backend/pkg/log"
)

const historyLimit = 10

var errEmptyCompletion = errors.New("model returned an empty reply")

// Service answers chat messages with an LLM, keeping the rule table's
// intent label for each reply.
type Service struct {
	chain      compose.Runnable[map[string]any, *schema.Message]
	prompts    *DoctorPromptManager
	rules      *intent.Responder
	maxRetries int
	backoff    func() backoff.BackOff
}

// NewService 基于 Ark 配置创建服务。
func NewService(ctx context.Context, cfg config.AIConfig, rules *intent.Responder) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, rules, cfg.MaxRetries)
}

// NewServiceWithModel compiles the prompt chain around an existing model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, rules *intent.Responder, maxRetries int) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chain:      runnable,
		prompts:    NewDoctorPromptManager(),
		rules:      rules,
		maxRetries: max(maxRetries, 0),
		backoff: func() backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = 200 * time.Millisecond
			exp.MaxInterval = 2 * time.Second
			return exp
		},
	}, nil
}

// Reply implements the chat responder. Transient model errors are retried
// with exponential backoff; cancellation stops immediately.
func (s *Service) Reply(ctx context.Context, doc doctor.Doctor, history []chat.Message, text string) (chat.Reply, error) {
	match := s.rules.Classify(text)
	hint := ""
	if match.Matched {
		hint = match.Response
	}
	input := map[string]any{
		"system":  s.prompts.BuildSystemPrompt(doc, hint),
		"history": buildHistoryMessages(history),
		"query":   text,
	}

	var out *schema.Message
	attempt := 0
	op := func() error {
		attempt++
		resp, err := s.chain.Invoke(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if resp == nil || strings.TrimSpace(resp.Content) == "" {
			return errEmptyCompletion
		}
		out = resp
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warnw("ai reply failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.backoff(), uint64(s.maxRetries)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return chat.Reply{}, fmt.Errorf("failed to run AI chain: %w", err)
	}

	log.Debugw("ai reply generated", "doctor", doc.ID, "intent", match.Rule, "length", len(out.Content))
	return chat.Reply{Text: strings.TrimSpace(out.Content), Intent: match.Rule}, nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		content := msg.Text
		if msg.Attachment != nil {
			content = strings.TrimSpace(content + fmt.Sprintf(" [adjunto %s]", msg.Attachment.Kind))
		}
		if content == "" {
			continue
		}
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(content))
		case chat.SenderAssistant:
			history = append(history, schema.AssistantMessage(content, nil))
		}
	}
	return history
}
