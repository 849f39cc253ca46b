package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/model"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrCourseCodeExists = errors.New("课程代码已存在")
	ErrCourseHasPapers  = errors.New("课程下存在试卷，无法删除")
)

// CourseService 课程业务接口
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.CourseResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.CourseResponse, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id uint) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── GetByCode ──────────────────────

func (s *courseService) GetByCode(ctx context.Context, code string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	// 检查课程代码全局唯一
	if _, err := s.repo.Course.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrCourseCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := &model.Course{
		Name: req.Name,
		Code: req.Code,
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id uint, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	// 仅更新非 nil 字段；修改代码时排除自身重新检查唯一性
	if req.Code != nil && *req.Code != course.Code {
		existing, err := s.repo.Course.GetByCode(ctx, *req.Code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrCourseCodeExists
		}
		course.Code = *req.Code
	}
	if req.Name != nil {
		course.Name = *req.Name
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id uint) error {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	// 课程下存在试卷时禁止删除（显式计数查询，不依赖关联遍历）
	count, err := s.repo.Course.CountPapers(ctx, course.ID)
	if err != nil {
		s.logger.Error("统计课程试卷数失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrCourseHasPapers
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func toCourseResponse(course *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:        course.ID,
		Name:      course.Name,
		Code:      course.Code,
		CreatedAt: course.CreatedAt.Format(time.RFC3339),
	}
}
