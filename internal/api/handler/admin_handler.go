package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/filestore"
)

// AdminHandler 管理面板处理器
// 表单动作不做重定向，直接带内联提示重新渲染面板
type AdminHandler struct {
	courseSvc service.CourseService
	paperSvc  service.PaperService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(courseSvc service.CourseService, paperSvc service.PaperService) *AdminHandler {
	return &AdminHandler{courseSvc: courseSvc, paperSvc: paperSvc}
}

// ────────────────────── Dashboard ──────────────────────

// Dashboard 管理面板：课程列表 + 最近上传的试卷
// GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	h.render(c, http.StatusOK, "", "")
}

// ────────────────────── AddCourse ──────────────────────

// AddCourse 面板内添加课程
// POST /admin/courses
func (h *AdminHandler) AddCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBind(&req); err != nil || req.Name == "" || req.Code == "" {
		h.render(c, http.StatusBadRequest, "", "课程名称和代码不能为空")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseCodeExists) {
			h.render(c, http.StatusBadRequest, "", err.Error())
			return
		}
		h.render(c, http.StatusInternalServerError, "", "服务器内部错误")
		return
	}

	h.render(c, http.StatusOK, "课程 "+course.Code+" 已添加", "")
}

// ────────────────────── UploadPaper ──────────────────────

// UploadPaper 面板内上传试卷
// POST /admin/papers
func (h *AdminHandler) UploadPaper(c *gin.Context) {
	uploaderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UploadPaperRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "", "标题、科目、年份、学期和课程ID不能为空")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.render(c, http.StatusBadRequest, "", "请选择要上传的文件")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		h.render(c, http.StatusInternalServerError, "", "服务器内部错误")
		return
	}
	defer src.Close()

	paper, err := h.paperSvc.Upload(c.Request.Context(), &req, fileHeader.Filename, src, uploaderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidNumber),
			errors.Is(err, filestore.ErrExtensionNotAllowed),
			errors.Is(err, filestore.ErrEmptyFilename),
			errors.Is(err, service.ErrCourseNotFound):
			h.render(c, http.StatusBadRequest, "", err.Error())
		default:
			h.render(c, http.StatusInternalServerError, "", "服务器内部错误")
		}
		return
	}

	h.render(c, http.StatusOK, "试卷「"+paper.Title+"」已上传", "")
}

// ────────────────────── DeletePaper ──────────────────────

// DeletePaper 面板内删除试卷
// POST /admin/papers/:id/delete
func (h *AdminHandler) DeletePaper(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		h.render(c, http.StatusNotFound, "", "试卷不存在")
		return
	}

	if err := h.paperSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPaperNotFound) {
			h.render(c, http.StatusNotFound, "", err.Error())
			return
		}
		h.render(c, http.StatusInternalServerError, "", "服务器内部错误")
		return
	}

	h.render(c, http.StatusOK, "试卷已删除", "")
}

// render 渲染管理面板，附带内联提示或错误
func (h *AdminHandler) render(c *gin.Context, status int, notice, errMsg string) {
	ctx := c.Request.Context()

	courses, err := h.courseSvc.List(ctx)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		return
	}
	recent, err := h.paperSvc.ListRecent(ctx)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		return
	}

	c.HTML(status, "admin.html", gin.H{
		"Courses":      courses,
		"RecentPapers": recent,
		"Notice":       notice,
		"Error":        errMsg,
	})
}
