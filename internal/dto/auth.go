package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// Identifier 可为用户名或邮箱
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier" binding:"required"`
	Password   string `json:"password"   form:"password"   binding:"required"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email"    form:"email"    binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=72"`
}

// SessionResponse 登录成功响应
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
