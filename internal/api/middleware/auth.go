package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/jwt"
	"github.com/anmolm-9/Question-Paper2/pkg/response"
)

// extractSessionToken 从会话 Cookie 或 Authorization: Bearer 头提取令牌
// Cookie 优先（浏览器页面），Bearer 头供 API 客户端使用
func extractSessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// resolveSession 验证令牌并还原服务端会话，成功后将身份注入上下文
func resolveSession(c *gin.Context, cookieName string, jwtMgr *jwt.Manager, auth service.AuthService) bool {
	token := extractSessionToken(c, cookieName)
	if token == "" {
		return false
	}

	sessionID, err := jwtMgr.ParseSessionToken(token)
	if err != nil {
		return false
	}

	sess, err := auth.Identify(c.Request.Context(), sessionID)
	if err != nil {
		return false
	}

	c.Set("session_id", sessionID)
	c.Set("user_id", sess.UserID)
	c.Set("is_admin", sess.IsAdmin)
	return true
}

// SessionAuth 会话认证中间件（API 路由）
// 未登录返回 401 JSON
func SessionAuth(cookieName string, jwtMgr *jwt.Manager, auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolveSession(c, cookieName, jwtMgr, auth) {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionAuthWeb 会话认证中间件（页面路由）
// 未登录重定向到登录页
func SessionAuthWeb(cookieName string, jwtMgr *jwt.Manager, auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolveSession(c, cookieName, jwtMgr, auth) {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalSession 尽力还原会话但从不拦截（公开页面展示登录状态用）
func OptionalSession(cookieName string, jwtMgr *jwt.Manager, auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolveSession(c, cookieName, jwtMgr, auth)
		c.Next()
	}
}

// AdminOnly 管理员权限中间件，须在 SessionAuth 之后挂载
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}
		if admin, ok := isAdmin.(bool); !ok || !admin {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnlyWeb 管理员权限中间件（页面路由），非管理员重定向到首页
func AdminOnlyWeb() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}
		if admin, ok := isAdmin.(bool); !ok || !admin {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
