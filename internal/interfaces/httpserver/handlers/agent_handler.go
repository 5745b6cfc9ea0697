package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/interfaces/httpserver/requests"
	"zync-server/backroom-api/internal/interfaces/httpserver/responses"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

// AgentHandler exposes HTTP entrypoints for agent profiles.
type AgentHandler struct {
	service *agent.Service
	log     zerolog.Logger
}

// NewAgentHandler constructs the handler.
func NewAgentHandler(service *agent.Service, log zerolog.Logger) *AgentHandler {
	return &AgentHandler{
		service: service,
		log:     log.With().Str("handler", "agent").Logger(),
	}
}

// Create handles POST /v1/agents
// @Summary Register an agent profile
// @Tags Agents
// @Accept json
// @Produce json
// @Param request body requests.CreateAgentRequest true "Agent profile"
// @Success 201 {object} agent.Agent
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/agents [post]
func (h *AgentHandler) Create(c *gin.Context) {
	var req requests.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"invalid agent request body", "d60b9e83-147a-4cf5-b2d8-93c05a7e61f2")
		return
	}

	a, err := h.service.Create(c.Request.Context(), agent.CreateInput{
		Name:               req.Name,
		Type:               req.Type,
		Description:        req.Description,
		Personality:        req.Personality,
		Background:         req.Background,
		Expertise:          req.Expertise,
		CoreBeliefs:        req.CoreBeliefs,
		Quirks:             req.Quirks,
		CommunicationStyle: req.CommunicationStyle,
		Traits:             req.Traits,
		Visibility:         agent.Visibility(req.Visibility),
		Creator:            req.Creator,
		CanLaunchToken:     req.CanLaunchToken,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create agent")
		return
	}

	c.JSON(http.StatusCreated, a)
}

// Get handles GET /v1/agents/:agent_id
// @Summary Get an agent profile
// @Tags Agents
// @Produce json
// @Param agent_id path string true "Agent ID"
// @Success 200 {object} agent.Agent
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id} [get]
func (h *AgentHandler) Get(c *gin.Context) {
	a, err := h.service.GetByID(c.Request.Context(), c.Param("agent_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get agent")
		return
	}
	c.JSON(http.StatusOK, a)
}
