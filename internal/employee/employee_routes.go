package employee

import "github.com/gin-gonic/gin"

func RegisterRoutes(
	rg *gin.RouterGroup,
	handler *Handler,
	adminOnly gin.HandlerFunc,
	idempotency gin.HandlerFunc,
) {
	employees := rg.Group("/employees")

	employees.GET("", handler.List)
	employees.GET("/options", handler.Options)
	employees.GET("/:id", handler.Get)

	employees.POST("", adminOnly, handler.Create)
	employees.POST("/bulk-import", adminOnly, idempotency, handler.BulkImport)
	employees.PATCH("/:id", adminOnly, handler.Update)
	employees.POST("/:id/promote", adminOnly, handler.Promote)
	employees.PUT("/:id/bank-details", adminOnly, handler.UpdateBankDetails)
	employees.POST("/:id/deactivate", adminOnly, handler.Deactivate)
	employees.DELETE("/:id", adminOnly, handler.Delete)
}
