package leave

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
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

// actorFromContext rebuilds the acting user from the auth middleware
// context values.
func actorFromContext(c *gin.Context) (Actor, error) {
	userID := contextutil.GetUserID(c.Request.Context())
	id, err := uuid.Parse(userID)
	if err != nil {
		return Actor{}, apperror.ErrUnauthorized
	}
	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return Actor{ID: id, Role: roleStr}, nil
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	actor, err := actorFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), actor.ID.String(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperror.MapValidationError(err))
		return
	}

	actor, err := actorFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.service.Decide(c.Request.Context(), actor, c.Param("id"), req.Action == "APPROVE")
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

// AttachDocument accepts a multipart "document" file and stores it
// against the request.
func (h *Handler) AttachDocument(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		h.respondError(c, apperror.InvalidField("document"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, apperror.InvalidField("document"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(c, apperror.InvalidField("document"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.service.AttachDocument(c.Request.Context(), actor,
		c.Param("id"), fileHeader.Filename, contentType, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Get(c *gin.Context) {
	result, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

// Mine lists the requests of the authenticated employee.
func (h *Handler) Mine(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.service.ListByEmployee(c.Request.Context(), actor.ID.String())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) List(c *gin.Context) {
	var query ListLeavesQuery
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
