package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// List 课程列表
// GET /api/courses/
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"courses": courses})
}

// Get 课程详情
// GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"course": course})
}

// Create 创建课程
// POST /api/courses/ (管理员)
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Code == "" {
		response.BadRequest(c, "课程名称和代码不能为空")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseCodeExists) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, gin.H{"course": course})
}

// Update 更新课程（部分字段）
// PUT /api/courses/:id (管理员)
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrCourseCodeExists):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, gin.H{"course": course})
}

// Delete 删除课程；课程下存在试卷时拒绝
// DELETE /api/courses/:id (管理员)
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrCourseHasPapers):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
