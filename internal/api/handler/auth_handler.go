package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
// 同时服务 JSON API 与登录/注册页面；登录成功后签发 HTTP-only 会话 Cookie
type AuthHandler struct {
	cfg     *config.Config
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(cfg *config.Config, authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, authSvc: authSvc}
}

// ────────────────────── 页面 ──────────────────────

// ShowLogin 登录页
// GET /auth/login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// ShowRegister 注册页
// GET /auth/register
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// ────────────────────── Login ──────────────────────

// Login 用户登录（用户名或邮箱 + 密码）
// POST /auth/login
// 表单请求成功后重定向到首页；JSON 请求返回令牌与用户信息
func (h *AuthHandler) Login(c *gin.Context) {
	isJSON := strings.Contains(c.ContentType(), "application/json")

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil || req.Identifier == "" || req.Password == "" {
		h.loginFail(c, isJSON, "请填写用户名和密码")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.loginFail(c, isJSON, service.ErrInvalidCredentials.Error())
			return
		}
		if isJSON {
			response.InternalError(c)
		} else {
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		}
		return
	}

	h.setSessionCookie(c, result.Token)

	if isJSON {
		response.OK(c, gin.H{"token": result.Token, "user": result.User})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) loginFail(c *gin.Context, isJSON bool, msg string) {
	if isJSON {
		response.Unauthorized(c, msg)
		return
	}
	c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": msg})
}

// ────────────────────── Register ──────────────────────

// Register 公开注册
// POST /auth/register（页面） / POST /api/users/（API）
func (h *AuthHandler) Register(c *gin.Context) {
	isJSON := strings.Contains(c.ContentType(), "application/json")

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		h.registerFail(c, isJSON, "请填写用户名、邮箱和密码")
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists), errors.Is(err, service.ErrEmailExists):
			h.registerFail(c, isJSON, err.Error())
		default:
			if isJSON {
				response.InternalError(c)
			} else {
				c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
			}
		}
		return
	}

	if isJSON {
		response.Created(c, gin.H{"user": user})
		return
	}
	c.Redirect(http.StatusFound, "/auth/login")
}

func (h *AuthHandler) registerFail(c *gin.Context, isJSON bool, msg string) {
	if isJSON {
		response.BadRequest(c, msg)
		return
	}
	c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": msg})
}

// ────────────────────── Logout ──────────────────────

// Logout 登出：删除服务端会话并清除 Cookie
// GET /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID := c.GetString("session_id"); sessionID != "" {
		// 删除失败不阻塞登出，Cookie 清除后会话自然过期
		_ = h.authSvc.Logout(c.Request.Context(), sessionID)
	}
	h.clearSessionCookie(c)

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		response.OK(c, nil)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ── Cookie 辅助 ──

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	cookie := h.cfg.Auth.Cookie
	c.SetSameSite(parseSameSite(cookie.SameSite))
	c.SetCookie(cookie.Name, token, int(h.cfg.Auth.SessionTTL.Seconds()), "/", cookie.Domain, cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	cookie := h.cfg.Auth.Cookie
	c.SetSameSite(parseSameSite(cookie.SameSite))
	c.SetCookie(cookie.Name, "", -1, "/", cookie.Domain, cookie.Secure, true)
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
