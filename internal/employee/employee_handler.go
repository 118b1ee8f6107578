package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"
)

type Handler struct {
	service Service
	parser  RowParser
}

func NewHandler(service Service, parser RowParser) *Handler {
	return &Handler{service: service, parser: parser}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result, nil)
}

func (h *Handler) List(c *gin.Context) {
	var query ListEmployeesQuery
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

func (h *Handler) Get(c *gin.Context) {
	result, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Promote(c *gin.Context) {
	var req PromoteEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Promote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) UpdateBankDetails(c *gin.Context) {
	var req UpdateBankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.UpdateBankDetails(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": StatusInactive}, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Options(c *gin.Context) {
	result, err := h.service.Options(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

// BulkImport accepts a CSV upload under the "file" form field.
func (h *Handler) BulkImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, apperror.RequiredField("file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, apperror.Wrap(err, apperror.CodeInvalidInput,
			"failed to open uploaded file", http.StatusBadRequest))
		return
	}
	defer file.Close()

	rows, err := h.parser.ParseRows(file)
	if err != nil {
		h.respondError(c, apperror.Wrap(err, apperror.CodeInvalidInput,
			"failed to parse uploaded file", http.StatusBadRequest))
		return
	}

	result, err := h.service.BulkImport(c.Request.Context(), rows)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result, nil)
}
