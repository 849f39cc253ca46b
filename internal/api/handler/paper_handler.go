package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/filestore"
	"github.com/anmolm-9/Question-Paper2/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PaperHandler 试卷模块 HTTP 处理器
type PaperHandler struct {
	paperSvc  service.PaperService
	exportSvc service.ExportService
}

// NewPaperHandler 创建 PaperHandler
func NewPaperHandler(paperSvc service.PaperService, exportSvc service.ExportService) *PaperHandler {
	return &PaperHandler{paperSvc: paperSvc, exportSvc: exportSvc}
}

// List 试卷列表，支持 course_id/year/semester 过滤
// GET /api/papers/
func (h *PaperHandler) List(c *gin.Context) {
	var req dto.PaperListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	papers, err := h.paperSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidNumber) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"papers": papers})
}

// Get 试卷详情
// GET /api/papers/:id
func (h *PaperHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	paper, err := h.paperSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPaperNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"paper": paper})
}

// Years 所有出现过的年份，降序
// GET /api/papers/years
func (h *PaperHandler) Years(c *gin.Context) {
	years, err := h.paperSvc.Years(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"years": years})
}

// Subjects 去重科目名，支持与列表相同的过滤条件
// GET /api/papers/subjects
func (h *PaperHandler) Subjects(c *gin.Context) {
	var req dto.PaperListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	subjects, err := h.paperSvc.Subjects(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidNumber) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"subjects": subjects})
}

// Upload 上传试卷（multipart 表单）
// POST /api/papers/ (管理员)
func (h *PaperHandler) Upload(c *gin.Context) {
	uploaderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UploadPaperRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "标题、科目、年份、学期和课程ID不能为空")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择要上传的文件")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	paper, err := h.paperSvc.Upload(c.Request.Context(), &req, fileHeader.Filename, src, uploaderID)
	if err != nil {
		h.handleUploadError(c, err)
		return
	}
	response.Created(c, gin.H{"paper": paper})
}

func (h *PaperHandler) handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidNumber),
		errors.Is(err, filestore.ErrExtensionNotAllowed),
		errors.Is(err, filestore.ErrEmptyFilename):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c)
	}
}

// Update 更新试卷元数据（不替换文件）
// PUT /api/papers/:id (管理员)
func (h *PaperHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	paper, err := h.paperSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaperNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrCourseNotFound):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, gin.H{"paper": paper})
}

// Delete 删除试卷（尽力删除文件，记录始终删除）
// DELETE /api/papers/:id (管理员)
func (h *PaperHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.paperSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPaperNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Export 导出试卷目录为 Excel
// GET /api/papers/export (管理员)
func (h *PaperHandler) Export(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportCatalogue(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoPapers) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
