package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/model"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
	"github.com/anmolm-9/Question-Paper2/pkg/filestore"
)

type paperTestEnv struct {
	svc     PaperService
	users   *mockUserRepo
	courses *mockCourseRepo
	papers  *mockPaperRepo
	files   *memFileStore
}

func newPaperTestEnv(t *testing.T) *paperTestEnv {
	t.Helper()
	users := newMockUserRepo()
	courses := newMockCourseRepo()
	papers := newMockPaperRepo(courses, users)
	repo := &repository.Repository{User: users, Course: courses, Paper: papers}
	files := newMemFileStore()

	// 基础数据：一个上传者和一门课程
	if err := users.Create(context.Background(), &model.User{
		Username: "admin", Email: "admin@questionpapers.com", IsAdmin: true,
	}); err != nil {
		t.Fatalf("准备用户失败: %v", err)
	}
	if err := courses.Create(context.Background(), &model.Course{
		Name: "Bachelor of Science in Computer Science", Code: "BSCCS",
	}); err != nil {
		t.Fatalf("准备课程失败: %v", err)
	}

	return &paperTestEnv{
		svc:     NewPaperService(repo, files, zap.NewNop()),
		users:   users,
		courses: courses,
		papers:  papers,
		files:   files,
	}
}

func (e *paperTestEnv) upload(t *testing.T, title, filename string, year, semester int) *dto.PaperResponse {
	t.Helper()
	resp, err := e.svc.Upload(context.Background(), &dto.UploadPaperRequest{
		Title:    title,
		Subject:  title,
		Year:     strconv.Itoa(year),
		Semester: strconv.Itoa(semester),
		CourseID: "1",
	}, filename, strings.NewReader("%PDF-1.4 fake"), 1)
	if err != nil {
		t.Fatalf("上传 %s 失败: %v", filename, err)
	}
	return resp
}

func TestUploadPaper(t *testing.T) {
	env := newPaperTestEnv(t)

	resp := env.upload(t, "数据结构期末", "ds final 2023.pdf", 2023, 1)

	if resp.Year != 2023 || resp.Semester != 1 {
		t.Errorf("年份/学期不匹配: %+v", resp)
	}
	if resp.Course.Code != "BSCCS" {
		t.Errorf("课程关联未加载: %+v", resp.Course)
	}
	if resp.UploadedBy != "admin" {
		t.Errorf("上传者应为 admin，实际: %s", resp.UploadedBy)
	}
	// 文件名应已净化（空格替换为下划线）
	if strings.Contains(resp.Filename, " ") {
		t.Errorf("文件名未净化: %s", resp.Filename)
	}
	if len(env.files.saved) != 1 {
		t.Errorf("应有 1 个已落盘文件，实际 %d", len(env.files.saved))
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	env := newPaperTestEnv(t)

	_, err := env.svc.Upload(context.Background(), &dto.UploadPaperRequest{
		Title: "可执行文件", Subject: "无", Year: "2023", Semester: "1", CourseID: "1",
	}, "x.exe", strings.NewReader("MZ"), 1)

	if !errors.Is(err, filestore.ErrExtensionNotAllowed) {
		t.Fatalf("期望 ErrExtensionNotAllowed，实际: %v", err)
	}
	// 拒绝的上传不应产生任何落盘文件和记录
	if len(env.files.saved) != 0 {
		t.Errorf("被拒绝的上传不应落盘，实际落盘 %d 个", len(env.files.saved))
	}
	if len(env.papers.papers) != 0 {
		t.Errorf("被拒绝的上传不应写入记录，实际 %d 条", len(env.papers.papers))
	}
}

func TestUploadAcceptedExtensions(t *testing.T) {
	env := newPaperTestEnv(t)

	for i, name := range []string{"a.pdf", "b.doc", "c.docx", "D.PDF"} {
		env.upload(t, "试卷", name, 2020+i, 1)
	}
	if len(env.files.saved) != 4 {
		t.Errorf("4 个合法后缀都应落盘，实际 %d", len(env.files.saved))
	}
}

func TestUploadInvalidNumbers(t *testing.T) {
	env := newPaperTestEnv(t)

	cases := []dto.UploadPaperRequest{
		{Title: "t", Subject: "s", Year: "abc", Semester: "1", CourseID: "1"},
		{Title: "t", Subject: "s", Year: "2023", Semester: "x", CourseID: "1"},
		{Title: "t", Subject: "s", Year: "2023", Semester: "1", CourseID: "one"},
	}
	for i := range cases {
		_, err := env.svc.Upload(context.Background(), &cases[i], "a.pdf", strings.NewReader("x"), 1)
		if !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("用例 %d 期望 ErrInvalidNumber，实际: %v", i, err)
		}
	}
}

func TestUploadUnknownCourse(t *testing.T) {
	env := newPaperTestEnv(t)

	_, err := env.svc.Upload(context.Background(), &dto.UploadPaperRequest{
		Title: "t", Subject: "s", Year: "2023", Semester: "1", CourseID: "999",
	}, "a.pdf", strings.NewReader("x"), 1)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestListOrderAndFilter(t *testing.T) {
	env := newPaperTestEnv(t)

	env.upload(t, "甲", "a.pdf", 2022, 2)
	env.upload(t, "乙", "b.pdf", 2023, 2)
	env.upload(t, "丙", "c.pdf", 2023, 1)
	env.upload(t, "丁", "d.pdf", 2021, 1)

	all, err := env.svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("列表查询失败: %v", err)
	}

	// 年份降序，学期升序
	want := []string{"丙", "乙", "甲", "丁"}
	if len(all) != len(want) {
		t.Fatalf("期望 %d 条，实际 %d", len(want), len(all))
	}
	for i, w := range want {
		if all[i].Title != w {
			t.Errorf("第 %d 条期望 %s，实际 %s", i, w, all[i].Title)
		}
	}

	// 按年份过滤
	filtered, err := env.svc.List(context.Background(), &dto.PaperListRequest{Year: "2023"})
	if err != nil {
		t.Fatalf("过滤查询失败: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("2023 年应有 2 条，实际 %d", len(filtered))
	}
	for _, p := range filtered {
		if p.Year != 2023 {
			t.Errorf("过滤结果包含其它年份: %+v", p)
		}
	}

	// 非整数过滤参数
	if _, err := env.svc.List(context.Background(), &dto.PaperListRequest{Year: "abc"}); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("非整数过滤参数应返回 ErrInvalidNumber，实际: %v", err)
	}
}

func TestYearsAndSubjects(t *testing.T) {
	env := newPaperTestEnv(t)

	env.upload(t, "数学", "a.pdf", 2021, 1)
	env.upload(t, "数学", "b.pdf", 2023, 1)
	env.upload(t, "物理", "c.pdf", 2023, 2)

	years, err := env.svc.Years(context.Background())
	if err != nil {
		t.Fatalf("查询年份失败: %v", err)
	}
	if len(years) != 2 || years[0] != 2023 || years[1] != 2021 {
		t.Errorf("年份应为 [2023 2021]，实际: %v", years)
	}

	subjects, err := env.svc.Subjects(context.Background(), nil)
	if err != nil {
		t.Fatalf("查询科目失败: %v", err)
	}
	if len(subjects) != 2 {
		t.Errorf("去重后应有 2 个科目，实际: %v", subjects)
	}
}

func TestPaperPartialUpdate(t *testing.T) {
	env := newPaperTestEnv(t)

	created := env.upload(t, "原标题", "a.pdf", 2022, 1)

	newTitle := "新标题"
	newYear := 2024
	updated, err := env.svc.Update(context.Background(), created.ID, &dto.UpdatePaperRequest{
		Title: &newTitle,
		Year:  &newYear,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Title != newTitle || updated.Year != newYear {
		t.Errorf("更新字段未生效: %+v", updated)
	}
	// 未指定的字段保持不变
	if updated.Semester != created.Semester || updated.Subject != created.Subject {
		t.Errorf("未更新的字段被改动: %+v", updated)
	}
	if updated.Filename != created.Filename {
		t.Errorf("更新不应替换文件: %s -> %s", created.Filename, updated.Filename)
	}
}

func TestPaperUpdateUnknownCourse(t *testing.T) {
	env := newPaperTestEnv(t)
	created := env.upload(t, "标题", "a.pdf", 2022, 1)

	badCourse := uint(999)
	_, err := env.svc.Update(context.Background(), created.ID, &dto.UpdatePaperRequest{CourseID: &badCourse})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestPaperDelete(t *testing.T) {
	env := newPaperTestEnv(t)
	created := env.upload(t, "标题", "a.pdf", 2022, 1)

	if err := env.svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if len(env.files.removed) != 1 {
		t.Errorf("删除应尝试移除文件，removed=%v", env.files.removed)
	}
	if _, err := env.svc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("删除后查询应返回 ErrPaperNotFound，实际: %v", err)
	}
}

func TestPaperNotFound(t *testing.T) {
	env := newPaperTestEnv(t)

	if _, err := env.svc.GetByID(context.Background(), 42); !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("期望 ErrPaperNotFound，实际: %v", err)
	}
	if err := env.svc.Delete(context.Background(), 42); !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("期望 ErrPaperNotFound，实际: %v", err)
	}
}
