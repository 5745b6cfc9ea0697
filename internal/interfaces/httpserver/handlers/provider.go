package handlers

import (
	"github.com/rs/zerolog"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/domain/backroom"
	"zync-server/backroom-api/internal/domain/token"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Backroom *BackroomHandler
	Token    *TokenHandler
	Agent    *AgentHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	backroomService *backroom.Service,
	turnService *backroom.TurnService,
	tokenService *token.Service,
	agentService *agent.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Backroom: NewBackroomHandler(backroomService, turnService, log),
		Token:    NewTokenHandler(tokenService, log),
		Agent:    NewAgentHandler(agentService, log),
	}
}
