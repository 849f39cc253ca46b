package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果会话中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return id, true
}

// IsAdmin 读取上下文中的管理员标记；未注入时视为非管理员
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	admin, ok := v.(bool)
	return ok && admin
}

// parseIDParam 解析路径参数中的整数 ID；解析失败返回 false 并写入 404 响应
// （非整数 ID 等价于资源不存在）
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	v, err := parseUintParam(c.Param(name))
	if err != nil {
		response.NotFound(c, "资源不存在")
		return 0, false
	}
	return v, true
}

func parseUintParam(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return uint(v), err
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
