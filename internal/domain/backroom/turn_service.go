package backroom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/domain/retry"
	"zync-server/backroom-api/internal/infrastructure/metrics"
	"zync-server/backroom-api/internal/infrastructure/observability"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

// CompletionProvider produces chat completions for turn generation.
type CompletionProvider interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// TurnConfig holds the sampling parameters used for every turn.
type TurnConfig struct {
	Model          string
	Temperature    float32
	TopP           float32
	MaxTokens      int
	FinalMaxTokens int
}

// TurnResult reports the outcome of one generation attempt. Produced is
// false when the conversation had already reached a terminal state, which is
// not an error.
type TurnResult struct {
	Produced  bool     `json:"produced"`
	Completed bool     `json:"completed"`
	Message   *Message `json:"message,omitempty"`
}

// TurnService drives one conversation turn at a time.
type TurnService struct {
	repo     Repository
	agents   agent.Repository
	provider CompletionProvider
	cfg      TurnConfig
	logger   zerolog.Logger
	now      func() time.Time
}

func NewTurnService(repo Repository, agents agent.Repository, provider CompletionProvider, cfg TurnConfig, logger zerolog.Logger) *TurnService {
	return &TurnService{
		repo:     repo,
		agents:   agents,
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GenerateNextTurn advances the conversation by one message. Calls against a
// completed or at-limit conversation return Produced=false without touching
// the document, so pollers can drive the loop until completion and then keep
// calling harmlessly.
func (s *TurnService) GenerateNextTurn(ctx context.Context, backroomID string) (*TurnResult, error) {
	ctx, span := observability.StartSpan(ctx, "backroom-api", "backroom.GenerateNextTurn")
	defer span.End()

	started := s.now()

	b, err := s.repo.FindByID(ctx, backroomID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to load backroom")
	}

	if b.Status.IsTerminal() || b.AtLimit() {
		return &TurnResult{Produced: false, Completed: true}, nil
	}

	// A pending conversation is started implicitly by its first turn.
	if b.Status == StatusPending {
		expected := b.UpdatedAt
		b.Status = StatusActive
		b.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, b, expected); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
				"failed to activate backroom")
		}
	}

	speakerID := b.NextSpeaker()
	speaker, err := s.agents.FindByID(ctx, speakerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("failed to load speaker %s", speakerID))
	}

	finalTurn := b.OnFinalTurn()

	maxTokens := s.cfg.MaxTokens
	if finalTurn {
		maxTokens = s.cfg.FinalMaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(b, speaker, finalTurn)},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserPrompt(b.Topic, finalTurn)},
		},
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
		MaxTokens:   maxTokens,
		Stop:        []string{"\n", ":", speaker.Name},
	}

	resp, err := s.provider.CreateChatCompletion(ctx, req)
	if err != nil {
		metrics.TurnsGeneratedTotal.WithLabelValues("error").Inc()
		metrics.ProviderErrorsTotal.WithLabelValues("turn", "completion").Inc()
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"turn generation failed")
	}

	raw := ""
	if len(resp.Choices) > 0 {
		raw = resp.Choices[0].Message.Content
	}

	content := SanitizeContent(raw, speaker.Name)
	if content == "" {
		s.logger.Warn().
			Str("backroom_id", b.ID).
			Str("agent_id", speaker.ID).
			Int("message_number", len(b.Messages)+1).
			Msg("provider returned empty content for turn")
	}

	now := s.now()
	msg := Message{
		ID:        uuid.NewString(),
		AgentID:   speaker.ID,
		Content:   content,
		Timestamp: now,
		Metadata: MessageMetadata{
			TokensUsed:    len(content),
			Latency:       now.Sub(b.UpdatedAt).Milliseconds(),
			IsLastMessage: finalTurn,
			AgentName:     speaker.Name,
			AgentType:     speaker.Type,
			MessageNumber: len(b.Messages) + 1,
			TotalMessages: b.MessageLimit,
		},
	}

	expected := b.UpdatedAt
	b.Messages = append(b.Messages, msg)
	b.UpdatedAt = now

	completedNow := b.AtLimit()
	if completedNow {
		b.Status = StatusCompleted
	}

	if err := s.repo.Update(ctx, b, expected); err != nil {
		metrics.TurnsGeneratedTotal.WithLabelValues("error").Inc()
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to persist turn")
	}

	if completedNow {
		s.writeCompletionRecords(ctx, b, now)
		metrics.BackroomsCompletedTotal.Inc()
	}

	metrics.TurnsGeneratedTotal.WithLabelValues("success").Inc()
	metrics.TurnDuration.Observe(s.now().Sub(started).Seconds())

	s.logger.Info().
		Str("backroom_id", b.ID).
		Str("agent_id", speaker.ID).
		Int("message_number", msg.Metadata.MessageNumber).
		Bool("completed", completedNow).
		Msg("turn generated")

	return &TurnResult{Produced: true, Completed: completedNow, Message: &msg}, nil
}

// writeCompletionRecords persists the summary and history projections. The
// conversation document is already committed, so projection failures are
// logged and swallowed rather than surfaced to the caller.
func (s *TurnService) writeCompletionRecords(ctx context.Context, b *Backroom, completedAt time.Time) {
	policy := retry.FixedPolicy()

	summary := BuildSummary(b, completedAt)
	if err := policy.Execute(ctx, func(ctx context.Context, attempt int) error {
		return s.repo.SaveSummary(ctx, b.ID, summary)
	}); err != nil {
		s.logger.Error().Err(err).Str("backroom_id", b.ID).Msg("failed to save conversation summary")
	}

	history := BuildHistory(b)
	if err := policy.Execute(ctx, func(ctx context.Context, attempt int) error {
		return s.repo.SaveHistory(ctx, b.ID, history)
	}); err != nil {
		s.logger.Error().Err(err).Str("backroom_id", b.ID).Msg("failed to save conversation history")
	}
}

// Transcript renders the attributed conversation text used downstream. Lines
// name participants by id rather than display name.
func Transcript(b *Backroom) string {
	lines := make([]string, 0, len(b.Messages))
	for _, msg := range b.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.AgentID, msg.Content))
	}
	return strings.Join(lines, "\n")
}
