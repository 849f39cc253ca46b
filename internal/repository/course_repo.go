package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id uint) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint) error
	// CountPapers 统计该课程下的试卷数（删除前的依赖检查）
	CountPapers(ctx context.Context, courseID uint) (int64, error)
}

// courseRepo CourseRepository 的 GORM 实现
type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Course{}).Error
}

func (r *courseRepo) CountPapers(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.QuestionPaper{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
