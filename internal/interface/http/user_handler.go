package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sisconis/identity-api/internal/apperror"
	"github.com/sisconis/identity-api/internal/application"
	repo "github.com/sisconis/identity-api/internal/domain/repository"
	"github.com/sisconis/identity-api/pkg/response"
	"github.com/sisconis/identity-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	LastName string `json:"last_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Dni      string `json:"dni" binding:"required,dni"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

type changeDniRequest struct {
	NewDni string `json:"new_dni" binding:"required,dni"`
}

type listUsersQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=created_at name"`
	Direction string `form:"direction" binding:"omitempty,oneof=asc desc"`
	Search    string `form:"search"`
}

// writeError maps expected apperror values to their suggested status and
// code; anything else is an opaque 500 and gets logged.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	status := apperror.StatusOf(err)
	if status == http.StatusInternalServerError {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Error[any](c, status, "UNEXPECTED_ERROR", "internal error", nil)
		return
	}
	response.Error[any](c, status, apperror.CodeOf(err), err.Error(), nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}
	dto, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Dni:      req.Dni,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto, "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}
	dto, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto, "user updated", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}
	dto, err := h.Svc.ChangePassword(c.Request.Context(), c.Param("id"), req.NewPassword)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto, "password changed", nil)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	if err := h.Svc.ResetPassword(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password reset to temporary", nil)
}

func (h *UserHandler) ChangeDni(c *gin.Context) {
	var req changeDniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}
	dto, err := h.Svc.ChangeDni(c.Request.Context(), c.Param("id"), req.NewDni)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto, "dni changed", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	dto, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto, "user", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid query", validation.ToDetails(err))
		return
	}
	page, err := h.Svc.List(c.Request.Context(), repo.Pagination{
		Page:      q.Page,
		Limit:     q.Limit,
		OrderBy:   q.OrderBy,
		Direction: q.Direction,
		Search:    q.Search,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page.Items, "users", gin.H{
		"total": page.Total,
		"page":  page.Page,
		"limit": page.Limit,
	})
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "missing query", nil)
		return
	}
	size := 10
	if s, err := strconv.Atoi(c.Query("size")); err == nil && s > 0 {
		size = s
	}
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
