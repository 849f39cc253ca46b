package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/model"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
)

// ── 试卷模块业务错误 ──

var (
	ErrPaperNotFound = errors.New("试卷不存在")
	ErrInvalidNumber = errors.New("年份、学期或课程ID必须为整数")
)

// PaperService 试卷业务接口
type PaperService interface {
	// List 按可选的课程/年份/学期过滤，固定按年份降序、学期升序返回
	List(ctx context.Context, req *dto.PaperListRequest) ([]dto.PaperResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.PaperResponse, error)
	// GetRecord 返回含文件路径的原始记录（下载端点使用）
	GetRecord(ctx context.Context, id uint) (*model.QuestionPaper, error)
	// ListRecent 按上传时间降序（管理面板）
	ListRecent(ctx context.Context) ([]dto.PaperResponse, error)
	// Years 所有出现过的年份，降序
	Years(ctx context.Context) ([]int, error)
	// Subjects 去重科目名，支持与 List 相同的过滤条件
	Subjects(ctx context.Context, req *dto.PaperListRequest) ([]string, error)
	// Upload 校验并保存上传文件，随后写入记录；文件先落盘，记录写入失败产生孤儿文件（可接受）
	Upload(ctx context.Context, req *dto.UploadPaperRequest, filename string, file io.Reader, uploaderID uint) (*dto.PaperResponse, error)
	// Update 部分字段更新；不替换已上传的文件
	Update(ctx context.Context, id uint, req *dto.UpdatePaperRequest) (*dto.PaperResponse, error)
	// Delete 尽力删除文件后删除记录；文件删除失败不阻塞记录删除
	Delete(ctx context.Context, id uint) error
}

type paperService struct {
	repo   *repository.Repository
	files  FileStore
	logger *zap.Logger
}

// NewPaperService 创建 PaperService 实例
func NewPaperService(repo *repository.Repository, files FileStore, logger *zap.Logger) PaperService {
	return &paperService{repo: repo, files: files, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *paperService) List(ctx context.Context, req *dto.PaperListRequest) ([]dto.PaperResponse, error) {
	filters, err := parsePaperFilters(req)
	if err != nil {
		return nil, err
	}

	papers, err := s.repo.Paper.List(ctx, filters)
	if err != nil {
		s.logger.Error("列出试卷失败", zap.Error(err))
		return nil, err
	}

	return toPaperResponses(papers), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *paperService) GetByID(ctx context.Context, id uint) (*dto.PaperResponse, error) {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaperResponse(paper), nil
}

// ────────────────────── GetRecord ──────────────────────

func (s *paperService) GetRecord(ctx context.Context, id uint) (*model.QuestionPaper, error) {
	return s.getPaper(ctx, id)
}

// ────────────────────── ListRecent ──────────────────────

func (s *paperService) ListRecent(ctx context.Context) ([]dto.PaperResponse, error) {
	papers, err := s.repo.Paper.ListRecent(ctx)
	if err != nil {
		s.logger.Error("列出试卷失败", zap.Error(err))
		return nil, err
	}
	return toPaperResponses(papers), nil
}

// ────────────────────── Years ──────────────────────

func (s *paperService) Years(ctx context.Context) ([]int, error) {
	years, err := s.repo.Paper.DistinctYears(ctx)
	if err != nil {
		s.logger.Error("查询年份列表失败", zap.Error(err))
		return nil, err
	}
	return years, nil
}

// ────────────────────── Subjects ──────────────────────

func (s *paperService) Subjects(ctx context.Context, req *dto.PaperListRequest) ([]string, error) {
	filters, err := parsePaperFilters(req)
	if err != nil {
		return nil, err
	}

	subjects, err := s.repo.Paper.DistinctSubjects(ctx, filters)
	if err != nil {
		s.logger.Error("查询科目列表失败", zap.Error(err))
		return nil, err
	}
	return subjects, nil
}

// ────────────────────── Upload ──────────────────────

func (s *paperService) Upload(ctx context.Context, req *dto.UploadPaperRequest, filename string, file io.Reader, uploaderID uint) (*dto.PaperResponse, error) {
	// 1. 整数解析校验
	year, err := strconv.Atoi(req.Year)
	if err != nil {
		return nil, ErrInvalidNumber
	}
	semester, err := strconv.Atoi(req.Semester)
	if err != nil {
		return nil, ErrInvalidNumber
	}
	courseID64, err := strconv.ParseUint(req.CourseID, 10, 64)
	if err != nil {
		return nil, ErrInvalidNumber
	}
	courseID := uint(courseID64)

	// 2. 课程必须存在
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}

	// 3. 校验并落盘（后缀/文件名校验失败时不会产生任何写操作）
	path, err := s.files.Save(year, semester, courseID, filename, file)
	if err != nil {
		return nil, err
	}

	// 4. 写入记录；失败时已落盘文件成为孤儿文件（可接受的不一致）
	paper := &model.QuestionPaper{
		Title:      req.Title,
		Subject:    req.Subject,
		Year:       year,
		Semester:   semester,
		Filename:   filepath.Base(path),
		FilePath:   path,
		CourseID:   courseID,
		UploadedBy: uploaderID,
	}

	if err := s.repo.Paper.Create(ctx, paper); err != nil {
		s.logger.Error("写入试卷记录失败，已落盘文件成为孤儿文件",
			zap.String("path", path), zap.Error(err))
		return nil, err
	}

	// 重新加载以获取关联数据（课程、上传者）
	created, err := s.getPaper(ctx, paper.ID)
	if err != nil {
		return nil, err
	}
	return toPaperResponse(created), nil
}

// ────────────────────── Update ──────────────────────

func (s *paperService) Update(ctx context.Context, id uint, req *dto.UpdatePaperRequest) (*dto.PaperResponse, error) {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	// 应用更新字段（仅更新非 nil 字段）
	if req.Title != nil {
		paper.Title = *req.Title
	}
	if req.Subject != nil {
		paper.Subject = *req.Subject
	}
	if req.Year != nil {
		paper.Year = *req.Year
	}
	if req.Semester != nil {
		paper.Semester = *req.Semester
	}
	if req.CourseID != nil {
		// 更换课程时重新校验课程存在
		if _, err := s.repo.Course.GetByID(ctx, *req.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, err
		}
		paper.CourseID = *req.CourseID
	}

	// 关联对象不随 Save 级联写入
	paper.Course = nil
	paper.Uploader = nil

	if err := s.repo.Paper.Update(ctx, paper); err != nil {
		s.logger.Error("更新试卷失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaperResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *paperService) Delete(ctx context.Context, id uint) error {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return err
	}

	// 尽力删除文件；文件缺失之外的失败仅记录告警，不阻塞记录删除
	if err := s.files.Remove(paper.FilePath); err != nil {
		s.logger.Warn("删除试卷文件失败，记录仍将删除",
			zap.Uint("id", id), zap.String("path", paper.FilePath), zap.Error(err))
	}

	if err := s.repo.Paper.Delete(ctx, id); err != nil {
		s.logger.Error("删除试卷记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *paperService) getPaper(ctx context.Context, id uint) (*model.QuestionPaper, error) {
	paper, err := s.repo.Paper.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaperNotFound
		}
		s.logger.Error("查询试卷失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return paper, nil
}

// parsePaperFilters 将查询参数解析为过滤条件；非整数输入返回 ErrInvalidNumber
func parsePaperFilters(req *dto.PaperListRequest) (*repository.PaperFilters, error) {
	filters := &repository.PaperFilters{}
	if req == nil {
		return filters, nil
	}

	if req.CourseID != "" {
		v, err := strconv.ParseUint(req.CourseID, 10, 64)
		if err != nil {
			return nil, ErrInvalidNumber
		}
		filters.CourseID = uint(v)
	}
	if req.Year != "" {
		v, err := strconv.Atoi(req.Year)
		if err != nil {
			return nil, ErrInvalidNumber
		}
		filters.Year = v
	}
	if req.Semester != "" {
		v, err := strconv.Atoi(req.Semester)
		if err != nil {
			return nil, ErrInvalidNumber
		}
		filters.Semester = v
	}

	return filters, nil
}

func toPaperResponse(paper *model.QuestionPaper) *dto.PaperResponse {
	resp := &dto.PaperResponse{
		ID:        paper.ID,
		Title:     paper.Title,
		Year:      paper.Year,
		Semester:  paper.Semester,
		Subject:   paper.Subject,
		Filename:  paper.Filename,
		CreatedAt: paper.CreatedAt.Format(time.RFC3339),
	}
	if paper.Course != nil {
		resp.Course = dto.CourseRef{
			ID:   paper.Course.ID,
			Name: paper.Course.Name,
			Code: paper.Course.Code,
		}
	}
	if paper.Uploader != nil {
		resp.UploadedBy = paper.Uploader.Username
	}
	return resp
}

func toPaperResponses(papers []model.QuestionPaper) []dto.PaperResponse {
	result := make([]dto.PaperResponse, 0, len(papers))
	for i := range papers {
		result = append(result, *toPaperResponse(&papers[i]))
	}
	return result
}
