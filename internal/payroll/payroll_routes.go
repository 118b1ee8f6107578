package payroll

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the payroll endpoints. The money-moving endpoints
// take an extra idempotency guard on top of authn and role checks.
func RegisterRoutes(
	rg *gin.RouterGroup,
	handler *Handler,
	adminOnly gin.HandlerFunc,
	idempotency gin.HandlerFunc,
) {
	salaries := rg.Group("/salaries")

	salaries.GET("", handler.ListSalaries)
	salaries.GET("/:id", handler.GetSalary)
	salaries.GET("/:id/invoice", handler.DownloadInvoice)

	salaries.POST("/generate", adminOnly, idempotency, handler.GenerateSalaries)
	salaries.POST("/run-payroll", adminOnly, idempotency, handler.RunPayroll)
	salaries.POST("/:id/pay", adminOnly, idempotency, handler.PaySalary)
	salaries.PATCH("/:id", adminOnly, handler.UpdateSalary)
}
