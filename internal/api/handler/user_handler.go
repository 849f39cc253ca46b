package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
	authSvc service.AuthService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, authSvc service.AuthService) *UserHandler {
	return &UserHandler{userSvc: userSvc, authSvc: authSvc}
}

// Profile 获取本人资料
// GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"user": user})
}

// UpdateProfile 更新本人资料（邮箱/密码）
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, gin.H{"user": user})
}

// Register 公开注册（API 入口，与页面注册共用 AuthService）
// POST /api/users/
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		response.BadRequest(c, "请填写用户名、邮箱和密码")
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists), errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, gin.H{"user": user})
}

// List 用户列表
// GET /api/users/ (管理员)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"users": users})
}

// Update 管理员更新任意用户
// PUT /api/users/:id (管理员)
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	user, err := h.userSvc.AdminUpdate(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, gin.H{"user": user})
}

// Delete 管理员删除用户；禁止删除自己与仍有上传试卷的用户
// DELETE /api/users/:id (管理员)
func (h *UserHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrUserSelfDelete), errors.Is(err, service.ErrUserHasPapers):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
