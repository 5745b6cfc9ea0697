package backroom

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/infrastructure/metrics"
	"zync-server/backroom-api/internal/utils/idgen"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

const (
	MinAgents       = 2
	MaxAgents       = 8
	MinMessageLimit = 10
	MaxMessageLimit = 100
)

// CreateParams carries the fields needed to open a new conversation.
type CreateParams struct {
	Name         string
	Topic        string
	Description  string
	AgentIDs     []string
	Visibility   Visibility
	Creator      string
	MessageLimit int
}

// Service manages conversation lifecycle outside of turn generation.
type Service struct {
	repo   Repository
	agents agent.Repository
	logger zerolog.Logger
}

func NewService(repo Repository, agents agent.Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, agents: agents, logger: logger}
}

// Create validates participants and opens a pending conversation.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Backroom, error) {
	if params.Topic == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "topic is required", nil,
			"3f8c1d0a-5b2e-4c7f-9a61-0d4e8b2f7c13")
	}
	if params.Creator == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "creator is required", nil,
			"a94d2e6b-1c38-47f0-b5d9-6e0a3c8f412d")
	}
	if len(params.AgentIDs) < MinAgents || len(params.AgentIDs) > MaxAgents {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("participant count must be between %d and %d", MinAgents, MaxAgents), nil,
			"7c5e9f21-8a04-4d6b-bf3c-2e1d70a9845e")
	}
	if params.MessageLimit < MinMessageLimit || params.MessageLimit > MaxMessageLimit {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("message limit must be between %d and %d", MinMessageLimit, MaxMessageLimit), nil,
			"e2b74c09-63fd-4a18-95c7-d80f1b3a62e4")
	}

	seen := make(map[string]struct{}, len(params.AgentIDs))
	launchers := 0
	for _, agentID := range params.AgentIDs {
		if _, dup := seen[agentID]; dup {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation,
				fmt.Sprintf("duplicate participant %s", agentID), nil,
				"b1f06d83-2a97-45ce-8b04-7d3e9c15fa26")
		}
		seen[agentID] = struct{}{}

		a, err := s.agents.FindByID(ctx, agentID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
				fmt.Sprintf("failed to resolve participant %s", agentID))
		}
		if a.CanLaunchToken {
			launchers++
		}
	}
	if launchers > 1 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"at most one participant may hold the token launch capability", nil,
			"09d4a7e2-6b51-4f38-ac90-1e8c52d7b36f")
	}

	visibility := params.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}

	id, err := idgen.GenerateSecureID("backroom", 16)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to generate backroom id", err,
			"5e7b20c4-91af-4d63-8e05-c2f6a18d94b7")
	}

	now := time.Now().UTC()
	b := &Backroom{
		ID:           id,
		Name:         params.Name,
		Topic:        params.Topic,
		Description:  params.Description,
		AgentIDs:     params.AgentIDs,
		Visibility:   visibility,
		Creator:      params.Creator,
		MessageLimit: params.MessageLimit,
		Messages:     []Message{},
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to persist backroom")
	}

	metrics.BackroomsCreatedTotal.Inc()
	s.logger.Info().
		Str("backroom_id", b.ID).
		Str("topic", b.Topic).
		Int("agents", len(b.AgentIDs)).
		Int("message_limit", b.MessageLimit).
		Msg("backroom created")

	return b, nil
}

// GetByID loads one conversation document.
func (s *Service) GetByID(ctx context.Context, id string) (*Backroom, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to load backroom")
	}
	return b, nil
}

// List returns one page of conversation documents.
func (s *Service) List(ctx context.Context, limit int, cursor string) (*Page, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page, err := s.repo.List(ctx, limit, cursor)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to list backrooms")
	}
	return page, nil
}

// Start moves a pending conversation to active. Starting anything else is a
// state error.
func (s *Service) Start(ctx context.Context, id string) (*Backroom, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to load backroom")
	}

	next, err := b.Status.TransitionTo(StatusActive)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState,
			fmt.Sprintf("conversation already started: status is %s", b.Status), err,
			"c83a51f7-04de-4b29-a6c1-9e7f2d60b845")
	}

	expected := b.UpdatedAt
	b.Status = next
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b, expected); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			"failed to start backroom")
	}

	s.logger.Info().Str("backroom_id", b.ID).Msg("backroom started")
	return b, nil
}
