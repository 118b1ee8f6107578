package leave

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, managerOnly gin.HandlerFunc) {
	leaves := rg.Group("/leaves")

	leaves.POST("", handler.Submit)
	leaves.GET("/mine", handler.Mine)
	leaves.GET("/:id", handler.Get)
	leaves.POST("/:id/document", handler.AttachDocument)
	leaves.DELETE("/:id", handler.Delete)

	leaves.GET("", managerOnly, handler.List)
	leaves.POST("/:id/decision", managerOnly, handler.Decide)
}
