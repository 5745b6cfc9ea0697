package agent

import (
	"context"
	"strings"
	"time"

	"zync-server/backroom-api/internal/utils/idgen"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

// Service handles agent creation and lookup.
type Service struct {
	repo Repository
}

// NewService creates the agent service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields supplied at agent creation time.
type CreateInput struct {
	Name               string
	Type               string
	Description        string
	Personality        string
	Background         string
	Expertise          string
	CoreBeliefs        string
	Quirks             string
	CommunicationStyle string
	Traits             []string
	Visibility         Visibility
	Creator            string
	CanLaunchToken     bool
}

// Create validates the input and persists a new immutable agent.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Agent, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "agent name is required", nil, "5f1c2a88-9d44-4e0b-a1c7-3b6f0d92e417")
	}
	if strings.TrimSpace(input.Creator) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "agent creator is required", nil, "c9a4e7d1-52f3-4b8e-9c60-8e21ab47f503")
	}
	if input.Visibility == "" {
		input.Visibility = VisibilityPublic
	}
	if input.Visibility != VisibilityPublic && input.Visibility != VisibilityPrivate {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid agent visibility", nil, "e0281f6b-7c35-4aa9-b14d-62d90c5a7e88")
	}

	id, err := idgen.GenerateSecureID("agent", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate agent ID")
	}

	a := &Agent{
		ID:                 id,
		Name:               strings.TrimSpace(input.Name),
		Type:               input.Type,
		Description:        input.Description,
		Personality:        input.Personality,
		Background:         input.Background,
		Expertise:          input.Expertise,
		CoreBeliefs:        input.CoreBeliefs,
		Quirks:             input.Quirks,
		CommunicationStyle: input.CommunicationStyle,
		Traits:             input.Traits,
		Visibility:         input.Visibility,
		Creator:            input.Creator,
		CanLaunchToken:     input.CanLaunchToken,
		CreatedAt:          time.Now().UTC(),
	}
	if a.Traits == nil {
		a.Traits = []string{}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create agent")
	}
	return a, nil
}

// GetByID loads a single agent definition.
func (s *Service) GetByID(ctx context.Context, id string) (*Agent, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "agent not found")
	}
	return a, nil
}
