package v1

import (
	"github.com/gin-gonic/gin"

	"zync-server/backroom-api/internal/interfaces/httpserver/handlers"
)

func registerBackroomRoutes(router gin.IRoutes, handler *handlers.BackroomHandler, tokens *handlers.TokenHandler) {
	router.POST("/backrooms", handler.Create)
	router.GET("/backrooms", handler.List)
	router.GET("/backrooms/:backroom_id", handler.Get)
	router.POST("/backrooms/:backroom_id/start", handler.Start)
	router.POST("/backrooms/:backroom_id/messages", handler.GenerateMessage)

	// Token routes nested under backrooms
	router.POST("/backrooms/:backroom_id/token/launch", tokens.Launch)
	router.POST("/backrooms/:backroom_id/token", tokens.SaveResult)
	router.GET("/backrooms/:backroom_id/token", tokens.Get)
}
