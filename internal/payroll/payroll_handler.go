package payroll

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GenerateSalaries creates DUE records for every payable employee for the
// requested period. Safe to call repeatedly.
func (h *Handler) GenerateSalaries(c *gin.Context) {
	var req GenerateSalariesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.GenerateMonthly(c.Request.Context(), Period{Month: req.Month, Year: req.Year})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) RunPayroll(c *gin.Context) {
	var req RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.RunBulkPayroll(c.Request.Context(), Period{Month: req.Month, Year: req.Year})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) PaySalary(c *gin.Context) {
	result, err := h.service.PayIndividual(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

// DownloadInvoice streams the invoice PDF. The storage location stays
// server-side.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	file, err := h.service.DownloadInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Header("Content-Length", strconv.Itoa(len(file.Data)))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *Handler) UpdateSalary(c *gin.Context) {
	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.UpdateSalary(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) GetSalary(c *gin.Context) {
	result, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) ListSalaries(c *gin.Context) {
	var query ListSalariesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, meta, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, &meta)
}
