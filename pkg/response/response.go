package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 统一响应信封（与 API 文档约定一致）：
//   成功: {"success": true, ...payload}
//   失败: {"success": false, "error": <message>}
// payload 的键直接并入顶层，如 {"success": true, "courses": [...]}

// ── 成功响应 ──

// OK 200 成功响应，payload 的键并入顶层
func OK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, envelope(payload))
}

// Created 201 创建成功
func Created(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(payload))
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"success": false, "error": message})
}

// ── 常见快捷方式 ──

// BadRequest 400 参数/业务校验失败（含唯一性冲突与依赖阻塞）
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 未登录
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403 权限不足
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "服务器内部错误")
}

func envelope(payload gin.H) gin.H {
	out := gin.H{"success": true}
	for k, v := range payload {
		out[k] = v
	}
	return out
}
