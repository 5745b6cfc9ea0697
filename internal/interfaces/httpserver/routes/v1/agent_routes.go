package v1

import (
	"github.com/gin-gonic/gin"

	"zync-server/backroom-api/internal/interfaces/httpserver/handlers"
)

func registerAgentRoutes(router gin.IRoutes, handler *handlers.AgentHandler) {
	router.POST("/agents", handler.Create)
	router.GET("/agents/:agent_id", handler.Get)
}
