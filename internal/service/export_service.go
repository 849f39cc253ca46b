package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/anmolm-9/Question-Paper2/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPapers     = errors.New("暂无试卷可导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 将试卷目录导出为 Excel (.xlsx)，行序与列表接口一致（年份降序、学期升序）
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportCatalogue 导出试卷目录为 Excel
	ExportCatalogue(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── ExportCatalogue ──────────────────────

func (s *exportService) ExportCatalogue(ctx context.Context) (*bytes.Buffer, string, error) {
	papers, err := s.repo.Paper.List(ctx, nil)
	if err != nil {
		s.logger.Error("查询试卷列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(papers) == 0 {
		return nil, "", ErrExportNoPapers
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "试卷目录"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 表头
	headers := []string{"标题", "课程代码", "年份", "学期", "科目", "文件名", "上传者", "上传时间"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	// 数据行
	for row, p := range papers {
		courseCode := ""
		if p.Course != nil {
			courseCode = p.Course.Code
		}
		uploader := ""
		if p.Uploader != nil {
			uploader = p.Uploader.Username
		}

		values := []interface{}{
			p.Title,
			courseCode,
			p.Year,
			p.Semester,
			p.Subject,
			p.Filename,
			uploader,
			p.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 缓冲失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("question_papers_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}
