package handler

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/service"
)

// WebHandler 页面渲染处理器
// 模板只做展示，分组与排序在此处完成
type WebHandler struct {
	courseSvc service.CourseService
	paperSvc  service.PaperService
}

// NewWebHandler 创建 WebHandler
func NewWebHandler(courseSvc service.CourseService, paperSvc service.PaperService) *WebHandler {
	return &WebHandler{courseSvc: courseSvc, paperSvc: paperSvc}
}

// ── 模板分组结构 ──

// SemesterGroup 同一学期的试卷
type SemesterGroup struct {
	Semester int
	Papers   []dto.PaperResponse
}

// YearGroup 同一年份的试卷，按学期分组
type YearGroup struct {
	Year      int
	Semesters []SemesterGroup
}

// CourseGroup 同一课程的试卷，按学期分组
type CourseGroup struct {
	Code      string
	Semesters []SemesterGroup
}

// YearCourseGroup 同一年份的试卷，按课程再按学期分组
type YearCourseGroup struct {
	Year    int
	Courses []CourseGroup
}

// ────────────────────── Home ──────────────────────

// Home 首页：课程列表（公开）
// GET /
func (h *WebHandler) Home(c *gin.Context) {
	courses, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Courses":  courses,
		"LoggedIn": c.GetUint("user_id") != 0,
		"IsAdmin":  IsAdmin(c),
	})
}

// ────────────────────── CoursePapers ──────────────────────

// CoursePapers 课程试卷页：按年份（降序）再按学期（升序）分组
// GET /courses/:code
func (h *WebHandler) CoursePapers(c *gin.Context) {
	code := c.Param("code")

	course, err := h.courseSvc.GetByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.HTML(http.StatusNotFound, "404.html", gin.H{})
			return
		}
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		return
	}

	papers, err := h.paperSvc.List(c.Request.Context(), &dto.PaperListRequest{
		CourseID: uintToString(course.ID),
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		return
	}

	c.HTML(http.StatusOK, "course_papers.html", gin.H{
		"Course":  course,
		"Years":   groupByYearSemester(papers),
		"IsAdmin": IsAdmin(c),
	})
}

// ────────────────────── YearPapers ──────────────────────

// YearPapers 按年份浏览页：年份（降序）→ 课程代码 → 学期（升序）
// GET /year-papers
func (h *WebHandler) YearPapers(c *gin.Context) {
	papers, err := h.paperSvc.List(c.Request.Context(), nil)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		return
	}

	c.HTML(http.StatusOK, "year_papers.html", gin.H{
		"Years":   groupByYearCourseSemester(papers),
		"IsAdmin": IsAdmin(c),
	})
}

// ────────────────────── Download ──────────────────────

// Download 下载试卷文件（附件，原始文件名）
// GET /download/:id
func (h *WebHandler) Download(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}

	paper, err := h.paperSvc.GetRecord(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPaperNotFound) {
			c.HTML(http.StatusNotFound, "404.html", gin.H{})
			return
		}
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "服务器内部错误"})
		return
	}

	c.FileAttachment(paper.FilePath, paper.Filename)
}

// ── 分组辅助 ──
// 输入均已按年份降序、学期升序排列，分组保持该次序

func groupByYearSemester(papers []dto.PaperResponse) []YearGroup {
	var years []YearGroup
	for _, p := range papers {
		if len(years) == 0 || years[len(years)-1].Year != p.Year {
			years = append(years, YearGroup{Year: p.Year})
		}
		yg := &years[len(years)-1]

		if len(yg.Semesters) == 0 || yg.Semesters[len(yg.Semesters)-1].Semester != p.Semester {
			yg.Semesters = append(yg.Semesters, SemesterGroup{Semester: p.Semester})
		}
		sg := &yg.Semesters[len(yg.Semesters)-1]
		sg.Papers = append(sg.Papers, p)
	}
	return years
}

func groupByYearCourseSemester(papers []dto.PaperResponse) []YearCourseGroup {
	var years []YearCourseGroup
	index := make(map[int]int)

	for _, p := range papers {
		i, ok := index[p.Year]
		if !ok {
			years = append(years, YearCourseGroup{Year: p.Year})
			i = len(years) - 1
			index[p.Year] = i
		}
		yg := &years[i]

		var cg *CourseGroup
		for j := range yg.Courses {
			if yg.Courses[j].Code == p.Course.Code {
				cg = &yg.Courses[j]
				break
			}
		}
		if cg == nil {
			yg.Courses = append(yg.Courses, CourseGroup{Code: p.Course.Code})
			cg = &yg.Courses[len(yg.Courses)-1]
		}

		if len(cg.Semesters) == 0 || cg.Semesters[len(cg.Semesters)-1].Semester != p.Semester {
			cg.Semesters = append(cg.Semesters, SemesterGroup{Semester: p.Semester})
		}
		sg := &cg.Semesters[len(cg.Semesters)-1]
		sg.Papers = append(sg.Papers, p)
	}

	// 年份内课程按代码排序，浏览顺序稳定
	for i := range years {
		sort.Slice(years[i].Courses, func(a, b int) bool {
			return years[i].Courses[a].Code < years[i].Courses[b].Code
		})
	}
	return years
}
