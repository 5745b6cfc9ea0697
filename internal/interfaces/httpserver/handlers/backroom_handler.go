package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zync-server/backroom-api/internal/domain/backroom"
	"zync-server/backroom-api/internal/interfaces/httpserver/requests"
	"zync-server/backroom-api/internal/interfaces/httpserver/responses"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

// BackroomHandler exposes HTTP entrypoints for conversation lifecycle and
// turn generation.
type BackroomHandler struct {
	service *backroom.Service
	turns   *backroom.TurnService
	log     zerolog.Logger
}

// NewBackroomHandler constructs the handler.
func NewBackroomHandler(service *backroom.Service, turns *backroom.TurnService, log zerolog.Logger) *BackroomHandler {
	return &BackroomHandler{
		service: service,
		turns:   turns,
		log:     log.With().Str("handler", "backroom").Logger(),
	}
}

// Create handles POST /v1/backrooms
// @Summary Create a backroom conversation
// @Description Opens a pending conversation between the given agents
// @Tags Backrooms
// @Accept json
// @Produce json
// @Param request body requests.CreateBackroomRequest true "Backroom definition"
// @Success 201 {object} responses.BackroomPayload
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/backrooms [post]
func (h *BackroomHandler) Create(c *gin.Context) {
	var req requests.CreateBackroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"invalid backroom request body", "84f0c3b7-2e96-4d51-a8c0-7d15e9a2f468")
		return
	}

	b, err := h.service.Create(c.Request.Context(), backroom.CreateParams{
		Name:         req.Name,
		Topic:        req.Topic,
		Description:  req.Description,
		AgentIDs:     req.Agents,
		Visibility:   backroom.Visibility(req.Visibility),
		Creator:      req.Creator,
		MessageLimit: req.MessageLimit,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create backroom")
		return
	}

	c.JSON(http.StatusCreated, responses.FromBackroom(b))
}

// Get handles GET /v1/backrooms/:backroom_id
// @Summary Get a backroom
// @Tags Backrooms
// @Produce json
// @Param backroom_id path string true "Backroom ID"
// @Success 200 {object} responses.BackroomPayload
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/backrooms/{backroom_id} [get]
func (h *BackroomHandler) Get(c *gin.Context) {
	b, err := h.service.GetByID(c.Request.Context(), c.Param("backroom_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get backroom")
		return
	}
	c.JSON(http.StatusOK, responses.FromBackroom(b))
}

// List handles GET /v1/backrooms
// @Summary List backrooms
// @Tags Backrooms
// @Produce json
// @Param limit query int false "Page size"
// @Param cursor query string false "Opaque pagination cursor"
// @Success 200 {object} responses.BackroomListResponse
// @Router /v1/backrooms [get]
func (h *BackroomHandler) List(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	page, err := h.service.List(c.Request.Context(), limit, c.Query("cursor"))
	if err != nil {
		responses.HandleError(c, err, "failed to list backrooms")
		return
	}
	c.JSON(http.StatusOK, responses.FromPage(page))
}

// Start handles POST /v1/backrooms/:backroom_id/start
// @Summary Start a pending backroom
// @Tags Backrooms
// @Produce json
// @Param backroom_id path string true "Backroom ID"
// @Success 200 {object} responses.BackroomPayload
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/backrooms/{backroom_id}/start [post]
func (h *BackroomHandler) Start(c *gin.Context) {
	b, err := h.service.Start(c.Request.Context(), c.Param("backroom_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to start backroom")
		return
	}
	c.JSON(http.StatusOK, responses.FromBackroom(b))
}

// GenerateMessage handles POST /v1/backrooms/:backroom_id/messages
// @Summary Generate the next conversation turn
// @Description Produces one message from the scheduled agent, completing the conversation when the limit is reached
// @Tags Backrooms
// @Produce json
// @Param backroom_id path string true "Backroom ID"
// @Success 200 {object} responses.TurnResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Router /v1/backrooms/{backroom_id}/messages [post]
func (h *BackroomHandler) GenerateMessage(c *gin.Context) {
	result, err := h.turns.GenerateNextTurn(c.Request.Context(), c.Param("backroom_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to generate message")
		return
	}
	c.JSON(http.StatusOK, responses.FromTurnResult(result))
}
