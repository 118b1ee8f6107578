package department

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, adminOnly gin.HandlerFunc) {
	departments := rg.Group("/departments")

	departments.GET("", handler.List)
	departments.GET("/:id", handler.Get)

	departments.POST("", adminOnly, handler.Create)
	departments.PATCH("/:id", adminOnly, handler.Update)
	departments.DELETE("/:id", adminOnly, handler.Delete)
}
