package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zync-server/backroom-api/internal/domain/token"
	"zync-server/backroom-api/internal/interfaces/httpserver/requests"
	"zync-server/backroom-api/internal/interfaces/httpserver/responses"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

const walletKeyHeader = "X-Wallet-Key"

// TokenHandler exposes HTTP entrypoints for the token launch coordinator.
type TokenHandler struct {
	service *token.Service
	log     zerolog.Logger
}

// NewTokenHandler constructs the handler.
func NewTokenHandler(service *token.Service, log zerolog.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		log:     log.With().Str("handler", "token").Logger(),
	}
}

// Launch handles POST /v1/backrooms/:backroom_id/token/launch
// @Summary Prepare a token launch for a completed conversation
// @Description Derives launch parameters from the transcript; at most one token per conversation
// @Tags Tokens
// @Accept json
// @Produce json
// @Param backroom_id path string true "Backroom ID"
// @Param request body requests.LaunchTokenRequest false "Requester wallet"
// @Success 200 {object} responses.LaunchTokenResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/backrooms/{backroom_id}/token/launch [post]
func (h *TokenHandler) Launch(c *gin.Context) {
	wallet := c.GetHeader(walletKeyHeader)

	var req requests.LaunchTokenRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.WalletPublicKey != "" {
		wallet = req.WalletPublicKey
	}
	if wallet == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"wallet public key is required", "3e90d7f2-61b8-4a45-9c03-5f28e4d0b176")
		return
	}

	result, err := h.service.Launch(c.Request.Context(), c.Param("backroom_id"), wallet)
	if err != nil {
		responses.HandleError(c, err, "failed to launch token")
		return
	}

	c.JSON(http.StatusOK, responses.LaunchTokenResponse{
		Success:      true,
		LaunchParams: result.LaunchParams,
		PendingToken: result.PendingToken,
	})
}

// SaveResult handles POST /v1/backrooms/:backroom_id/token
// @Summary Record a token launch result
// @Tags Tokens
// @Accept json
// @Produce json
// @Param backroom_id path string true "Backroom ID"
// @Param request body requests.SaveTokenResultRequest true "Launch outcome"
// @Success 200 {object} responses.SaveTokenResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/backrooms/{backroom_id}/token [post]
func (h *TokenHandler) SaveResult(c *gin.Context) {
	var req requests.SaveTokenResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"invalid token result body", "7a25c810-f49d-4e67-b3a1-0d86e5c29f34")
		return
	}

	rec, err := h.service.SaveResult(c.Request.Context(), c.Param("backroom_id"), token.ResultInput{
		Mint:        req.TokenInfo.Mint,
		Name:        req.TokenInfo.Name,
		Symbol:      req.TokenInfo.Symbol,
		Description: req.TokenInfo.Description,
		PumpFun: token.PumpFunResult{
			Signature:   req.TokenInfo.PumpFun.Signature,
			MetadataURI: req.TokenInfo.PumpFun.MetadataURI,
		},
	})
	if err != nil {
		responses.HandleError(c, err, "failed to save token result")
		return
	}

	c.JSON(http.StatusOK, responses.SaveTokenResponse{Success: true, TokenInfo: rec})
}

// Get handles GET /v1/backrooms/:backroom_id/token
// @Summary Get the launched token for a conversation
// @Description Returns null when no token has been launched
// @Tags Tokens
// @Produce json
// @Param backroom_id path string true "Backroom ID"
// @Success 200 {object} token.Record
// @Router /v1/backrooms/{backroom_id}/token [get]
func (h *TokenHandler) Get(c *gin.Context) {
	rec, err := h.service.GetToken(c.Request.Context(), c.Param("backroom_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get token")
		return
	}
	c.JSON(http.StatusOK, rec)
}
