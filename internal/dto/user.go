package dto

// ── 用户模块 DTO ──

// UpdateProfileRequest 更新本人资料请求
// Password 为空串时不修改密码
type UpdateProfileRequest struct {
	Email    *string `json:"email"    binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,max=72"`
}

// AdminUpdateUserRequest 管理员更新用户请求
type AdminUpdateUserRequest struct {
	Email    *string `json:"email"    binding:"omitempty,email"`
	IsAdmin  *bool   `json:"is_admin"`
	Password *string `json:"password" binding:"omitempty,max=72"`
}

// UserResponse 用户信息响应（脱敏，密码散列永不返回）
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}
