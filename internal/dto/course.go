package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100"`
	Code string `json:"code" form:"code" binding:"required,max=20"`
}

// UpdateCourseRequest 更新课程请求（仅更新非 nil 字段）
type UpdateCourseRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
	Code *string `json:"code" binding:"omitempty,max=20"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
}

// CourseRef 课程简要信息（嵌入试卷响应）
type CourseRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
