package employee

import (
	"fmt"
	"net/http"
	"strconv"

	employeeerrors "go-staff/internal/employee/errors"
	"go-staff/internal/middleware"
	"go-staff/internal/shared/apperror"
	"go-staff/internal/shared/pagination"
	"go-staff/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("employee request failed", append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn("employee request failed", append(fields, zap.String("message", httpErr.Message))...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, employeeerrors.ErrEmployeeNotFound
	}
	return uint(id), nil
}

func (h *Handler) List(c *gin.Context) {
	page, err := pagination.FromRequest(c.Request, pagination.DefaultPageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := ListQuery{
		Department: c.Query("department"),
		Role:       c.Query("role"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
	}
	if c.Query("get_employee") != "" {
		q.UserID = c.GetUint(middleware.ContextUserID)
	}

	items, total, err := h.service.List(c.Request.Context(), q, page)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := pagination.Meta(c.Request, page, total)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Create(c *gin.Context) {
	// an unknown id is a 404 whatever the body holds
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/employees/%d/", resp.ID))
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetMine returns the caller's own employee record.
func (h *Handler) GetMine(c *gin.Context) {
	resp, err := h.service.GetMine(c.Request.Context(), c.GetUint(middleware.ContextUserID))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Patch(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// an unknown id is a 404 whatever the body holds
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req PatchEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.NoContent(c)
}
