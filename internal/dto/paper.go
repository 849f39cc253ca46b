package dto

// ── 试卷模块 DTO ──

// PaperListRequest 试卷列表查询参数
// 三个过滤条件均可选；留空表示不过滤
type PaperListRequest struct {
	CourseID string `form:"course_id"`
	Year     string `form:"year"`
	Semester string `form:"semester"`
}

// UploadPaperRequest 试卷上传表单（multipart）
// year/semester/course_id 以字符串接收，由 Service 层做整数解析校验
type UploadPaperRequest struct {
	Title    string `form:"title"     binding:"required,max=200"`
	Subject  string `form:"subject"   binding:"required,max=100"`
	Year     string `form:"year"      binding:"required"`
	Semester string `form:"semester"  binding:"required"`
	CourseID string `form:"course_id" binding:"required"`
}

// UpdatePaperRequest 更新试卷请求（仅更新非 nil 字段，不替换文件）
type UpdatePaperRequest struct {
	Title    *string `json:"title"    binding:"omitempty,max=200"`
	Subject  *string `json:"subject"  binding:"omitempty,max=100"`
	Year     *int    `json:"year"`
	Semester *int    `json:"semester"`
	CourseID *uint   `json:"course_id"`
}

// PaperResponse 试卷信息响应
type PaperResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Course     CourseRef `json:"course"`
	Year       int       `json:"year"`
	Semester   int       `json:"semester"`
	Subject    string    `json:"subject"`
	Filename   string    `json:"filename"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  string    `json:"created_at"`
}
