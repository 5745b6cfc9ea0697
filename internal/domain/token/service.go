package token

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/domain/backroom"
	"zync-server/backroom-api/internal/domain/retry"
	"zync-server/backroom-api/internal/infrastructure/metrics"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

const parameterSystemPrompt = `You are an AI designed to analyze conversations and suggest appropriate token parameters.
Based on the conversation topic and content, suggest a name, symbol, decimals, and supply for a token.
Return your response as a valid JSON object with the following structure:
{
  "name": "Token Name",
  "symbol": "SYMBOL",
  "decimals": 9,
  "supply": 1000000000,
  "description": "Brief description of what this token represents based on the conversation"
}

IMPORTANT CONSTRAINTS:
- Keep the description VERY SHORT (maximum 64 characters)
- Symbol should be 3-5 characters only and in ALL CAPS
- Token name should be concise (under 32 characters)
- Supply should be between 1,000,000 and 1,000,000,000
- Decimals should be 9 (Solana standard)

Do not include any markdown formatting, code blocks, or explanations in your response.
Your entire response must be a valid JSON object.`

// BackroomSource loads conversation documents.
type BackroomSource interface {
	FindByID(ctx context.Context, id string) (*backroom.Backroom, error)
}

// AgentSource loads agent profiles.
type AgentSource interface {
	FindByID(ctx context.Context, id string) (*agent.Agent, error)
}

// CompletionProvider produces chat completions for parameter derivation.
type CompletionProvider interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// LaunchConfig carries per-deployment launch settings.
type LaunchConfig struct {
	Model       string
	Temperature float32
	SiteBaseURL string
}

// Service coordinates token launches for completed conversations.
type Service struct {
	repo      Repository
	backrooms BackroomSource
	agents    AgentSource
	provider  CompletionProvider
	cfg       LaunchConfig
	logger    zerolog.Logger
	now       func() time.Time
	retries   retry.Policy
}

func NewService(repo Repository, backrooms BackroomSource, agents AgentSource, provider CompletionProvider, cfg LaunchConfig, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		backrooms: backrooms,
		agents:    agents,
		provider:  provider,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		retries:   retry.FixedPolicy(),
	}
}

// Launch prepares token launch parameters for a completed conversation. The
// preconditions are checked in order so each failure mode keeps a stable
// error type: incomplete conversation, already-launched token, missing
// launch-capable agent, and finally requester authorization.
func (s *Service) Launch(ctx context.Context, backroomID, walletPublicKey string) (*LaunchResult, error) {
	b, err := s.backrooms.FindByID(ctx, backroomID)
	if err != nil {
		metrics.TokenLaunchesTotal.WithLabelValues("error").Inc()
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to load backroom")
	}

	if b.Status != backroom.StatusCompleted {
		metrics.TokenLaunchesTotal.WithLabelValues("rejected").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState,
			"conversation must be completed before launching a token", nil,
			"d17f3a84-29c6-4e50-b8a2-f60d5c91e734")
	}

	if existing, err := s.repo.FindRecord(ctx, backroomID); err == nil && existing != nil {
		metrics.TokenLaunchesTotal.WithLabelValues("rejected").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict,
			"a token has already been launched for this conversation", nil,
			"82c6e1f9-470d-4b35-a98e-3d2f7c05b861")
	} else if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		metrics.TokenLaunchesTotal.WithLabelValues("error").Inc()
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to check for existing token")
	}

	// First capability holder in participant order wins.
	var launcher *agent.Agent
	for _, agentID := range b.AgentIDs {
		a, err := s.agents.FindByID(ctx, agentID)
		if err != nil {
			metrics.TokenLaunchesTotal.WithLabelValues("error").Inc()
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
				fmt.Sprintf("failed to load participant %s", agentID))
		}
		if a.CanLaunchToken {
			launcher = a
			break
		}
	}
	if launcher == nil {
		metrics.TokenLaunchesTotal.WithLabelValues("rejected").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"no launch-capable agent in this conversation", nil,
			"6b04d8e3-f1a7-42c9-850d-9e36a2c7f1b0")
	}

	if launcher.Creator != walletPublicKey {
		metrics.TokenLaunchesTotal.WithLabelValues("rejected").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden,
			"only the agent creator can launch tokens", nil,
			"f530c2a8-6d91-4e47-bb0f-84a1d7e29c53")
	}

	params, err := s.deriveParameters(ctx, b)
	if err != nil {
		metrics.TokenLaunchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	costs := DeriveCosts(params.Supply)
	launchParams := LaunchParams{
		TokenName:        params.Name,
		TokenSymbol:      params.Symbol,
		TokenDescription: params.Description,
		ImageURL:         fmt.Sprintf("https://picsum.photos/seed/%s/300/300", stripWhitespace(params.Name)),
		PumpFunOptions: PumpFunOptions{
			Twitter:             fmt.Sprintf("@%stoken", strings.ToLower(params.Symbol)),
			Telegram:            fmt.Sprintf("t.me/%s", strings.ToLower(params.Symbol)),
			Website:             fmt.Sprintf("%s/tokens/%s", s.cfg.SiteBaseURL, b.ID),
			InitialLiquiditySOL: costs.InitialLiquidity,
			SlippageBps:         10,
			PriorityFee:         0.0001,
		},
		Decimals:   params.Decimals,
		Supply:     params.Supply,
		BackroomID: b.ID,
		Costs:      costs,
	}

	pending := &PendingRecord{
		Name:        params.Name,
		Symbol:      params.Symbol,
		Decimals:    params.Decimals,
		Supply:      params.Supply,
		Description: params.Description,
		BackroomID:  b.ID,
		Topic:       b.Topic,
		CreatedAt:   s.now(),
		Status:      PendingStatusPending,
		Creator:     walletPublicKey,
	}

	// The pending record is an audit trail, not a gate. A write failure must
	// not lose the launch parameters already derived for the caller.
	if err := s.retries.Execute(ctx, func(ctx context.Context, attempt int) error {
		return s.repo.SavePending(ctx, b.ID, pending)
	}); err != nil {
		s.logger.Error().Err(err).Str("backroom_id", b.ID).Msg("failed to save pending token record")
	}

	metrics.TokenLaunchesTotal.WithLabelValues("prepared").Inc()
	s.logger.Info().
		Str("backroom_id", b.ID).
		Str("symbol", params.Symbol).
		Int64("supply", params.Supply).
		Msg("token launch prepared")

	return &LaunchResult{LaunchParams: launchParams, PendingToken: pending}, nil
}

func (s *Service) deriveParameters(ctx context.Context, b *backroom.Backroom) (*Parameters, error) {
	userPrompt := fmt.Sprintf(
		"Based on the following conversation about %q, suggest parameters for a token launch:\n\n%s",
		b.Topic, backroom.Transcript(b))

	resp, err := s.provider.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parameterSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("token", "completion").Inc()
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to generate token parameters")
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.ProviderErrorsTotal.WithLabelValues("token", "empty_response").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal,
			"no content in token parameter response", nil,
			"1a8e5c72-93bf-4d04-a6e8-c57f02d9b341")
	}

	var params Parameters
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &params); err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("token", "malformed_response").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal,
			"failed to parse token parameters from provider response", err,
			"4c7d21b6-e80a-4f93-9125-6fb3d8a0c597")
	}
	if err := params.Validate(); err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("token", "malformed_response").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal,
			"provider returned invalid token parameters", err,
			"9e2f6b0d-54c8-4a17-b3e9-08d1c7a52f64")
	}

	return &params, nil
}

// SaveResult records the on-chain outcome reported by the caller. A missing
// pending record is tolerated so results survive even when the earlier
// best-effort write was lost.
func (s *Service) SaveResult(ctx context.Context, backroomID string, input ResultInput) (*Record, error) {
	b, err := s.backrooms.FindByID(ctx, backroomID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to load backroom")
	}

	pending, err := s.repo.FindPending(ctx, backroomID)
	if err != nil {
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			s.logger.Warn().Err(err).Str("backroom_id", backroomID).Msg("failed to load pending token record")
		}
		pending = nil
	}

	rec := &Record{
		Mint:        input.Mint,
		Name:        input.Name,
		Symbol:      input.Symbol,
		Description: input.Description,
		PumpFun:     input.PumpFun,
		BackroomID:  b.ID,
		Topic:       b.Topic,
		LaunchedAt:  s.now(),
	}
	if pending != nil {
		rec.Decimals = pending.Decimals
		rec.Supply = pending.Supply
		rec.Creator = pending.Creator
	}

	if err := s.repo.SaveRecord(ctx, b.ID, rec); err != nil {
		metrics.TokenLaunchesTotal.WithLabelValues("error").Inc()
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to save token record")
	}

	if pending != nil {
		processedAt := s.now()
		pending.Status = PendingStatusProcessed
		pending.ProcessedAt = &processedAt
		if err := s.repo.SavePending(ctx, b.ID, pending); err != nil {
			s.logger.Warn().Err(err).Str("backroom_id", b.ID).Msg("failed to mark pending token record processed")
		}
	}

	metrics.TokenLaunchesTotal.WithLabelValues("launched").Inc()
	s.logger.Info().
		Str("backroom_id", b.ID).
		Str("mint", rec.Mint).
		Msg("token launch recorded")

	return rec, nil
}

// GetToken returns the token record for a conversation, or nil when no token
// has been launched.
func (s *Service) GetToken(ctx context.Context, backroomID string) (*Record, error) {
	rec, err := s.repo.FindRecord(ctx, backroomID)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to load token record")
	}
	return rec, nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
