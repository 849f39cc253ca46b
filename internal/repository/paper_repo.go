package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/internal/model"
)

// PaperFilters 试卷查询过滤条件；零值字段不参与过滤
type PaperFilters struct {
	CourseID uint
	Year     int
	Semester int
}

// PaperRepository 试卷数据访问接口
type PaperRepository interface {
	Create(ctx context.Context, paper *model.QuestionPaper) error
	GetByID(ctx context.Context, id uint) (*model.QuestionPaper, error)
	// List 按过滤条件查询，固定排序：年份降序、学期升序
	List(ctx context.Context, filters *PaperFilters) ([]model.QuestionPaper, error)
	// ListRecent 按上传时间降序（管理面板）
	ListRecent(ctx context.Context) ([]model.QuestionPaper, error)
	Update(ctx context.Context, paper *model.QuestionPaper) error
	Delete(ctx context.Context, id uint) error
	// DistinctYears 所有出现过的年份，降序
	DistinctYears(ctx context.Context) ([]int, error)
	// DistinctSubjects 去重的科目名，支持与 List 相同的过滤条件
	DistinctSubjects(ctx context.Context, filters *PaperFilters) ([]string, error)
}

// paperRepo PaperRepository 的 GORM 实现
type paperRepo struct {
	db *gorm.DB
}

// NewPaperRepo 创建 PaperRepository 实例
func NewPaperRepo(db *gorm.DB) PaperRepository {
	return &paperRepo{db: db}
}

func (r *paperRepo) Create(ctx context.Context, paper *model.QuestionPaper) error {
	return r.db.WithContext(ctx).Create(paper).Error
}

func (r *paperRepo) GetByID(ctx context.Context, id uint) (*model.QuestionPaper, error) {
	var paper model.QuestionPaper
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Uploader").
		Where("id = ?", id).
		First(&paper).Error
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

func (r *paperRepo) List(ctx context.Context, filters *PaperFilters) ([]model.QuestionPaper, error) {
	var papers []model.QuestionPaper
	err := r.applyFilters(r.db.WithContext(ctx), filters).
		Preload("Course").
		Preload("Uploader").
		Order("year DESC, semester ASC").
		Find(&papers).Error
	return papers, err
}

func (r *paperRepo) ListRecent(ctx context.Context) ([]model.QuestionPaper, error) {
	var papers []model.QuestionPaper
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Uploader").
		Order("created_at DESC").
		Find(&papers).Error
	return papers, err
}

func (r *paperRepo) Update(ctx context.Context, paper *model.QuestionPaper) error {
	return r.db.WithContext(ctx).Save(paper).Error
}

func (r *paperRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.QuestionPaper{}).Error
}

func (r *paperRepo) DistinctYears(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).
		Model(&model.QuestionPaper{}).
		Distinct("year").
		Order("year DESC").
		Pluck("year", &years).Error
	return years, err
}

func (r *paperRepo) DistinctSubjects(ctx context.Context, filters *PaperFilters) ([]string, error) {
	var subjects []string
	err := r.applyFilters(r.db.WithContext(ctx).Model(&model.QuestionPaper{}), filters).
		Distinct("subject").
		Pluck("subject", &subjects).Error
	return subjects, err
}

// applyFilters 按非零字段拼接 WHERE 条件
func (r *paperRepo) applyFilters(db *gorm.DB, filters *PaperFilters) *gorm.DB {
	if filters == nil {
		return db
	}
	if filters.CourseID != 0 {
		db = db.Where("course_id = ?", filters.CourseID)
	}
	if filters.Year != 0 {
		db = db.Where("year = ?", filters.Year)
	}
	if filters.Semester != 0 {
		db = db.Where("semester = ?", filters.Semester)
	}
	return db
}
