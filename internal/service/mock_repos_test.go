package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/internal/model"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
	"github.com/anmolm-9/Question-Paper2/pkg/filestore"
	"github.com/anmolm-9/Question-Paper2/pkg/redis"
)

// ── 内存 Mock 仓储 ──
// 以 map 模拟数据表，未命中返回 gorm.ErrRecordNotFound，与 GORM 实现的语义一致

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
	// paperCounts 模拟按上传者统计的试卷数
	paperCounts map[uint]int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:       make(map[uint]*model.User),
		nextID:      1,
		paperCounts: make(map[uint]int64),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]model.User, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.users[id])
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CountPapers(_ context.Context, userID uint) (int64, error) {
	return m.paperCounts[userID], nil
}

type mockCourseRepo struct {
	courses map[uint]*model.Course
	nextID  uint
	// paperCounts 模拟按课程统计的试卷数
	paperCounts map[uint]int64
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{
		courses:     make(map[uint]*model.Course),
		nextID:      1,
		paperCounts: make(map[uint]int64),
	}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	course.ID = m.nextID
	m.nextID++
	course.CreatedAt = time.Now()
	cp := *course
	m.courses[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id uint) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	result := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *course
	m.courses[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id uint) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) CountPapers(_ context.Context, courseID uint) (int64, error) {
	return m.paperCounts[courseID], nil
}

type mockPaperRepo struct {
	papers map[uint]*model.QuestionPaper
	nextID uint
	// courses/users 用于模拟 Preload 关联加载
	courses *mockCourseRepo
	users   *mockUserRepo
}

func newMockPaperRepo(courses *mockCourseRepo, users *mockUserRepo) *mockPaperRepo {
	return &mockPaperRepo{
		papers:  make(map[uint]*model.QuestionPaper),
		nextID:  1,
		courses: courses,
		users:   users,
	}
}

func (m *mockPaperRepo) Create(_ context.Context, paper *model.QuestionPaper) error {
	paper.ID = m.nextID
	m.nextID++
	paper.CreatedAt = time.Now()
	cp := *paper
	m.papers[paper.ID] = &cp
	return nil
}

func (m *mockPaperRepo) GetByID(_ context.Context, id uint) (*model.QuestionPaper, error) {
	p, ok := m.papers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	m.preload(&cp)
	return &cp, nil
}

func (m *mockPaperRepo) List(_ context.Context, filters *repository.PaperFilters) ([]model.QuestionPaper, error) {
	result := make([]model.QuestionPaper, 0, len(m.papers))
	for _, p := range m.papers {
		if !matchFilters(p, filters) {
			continue
		}
		cp := *p
		m.preload(&cp)
		result = append(result, cp)
	}
	// 年份降序，学期升序
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Semester < result[j].Semester
	})
	return result, nil
}

func (m *mockPaperRepo) ListRecent(_ context.Context) ([]model.QuestionPaper, error) {
	result := make([]model.QuestionPaper, 0, len(m.papers))
	for _, p := range m.papers {
		cp := *p
		m.preload(&cp)
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockPaperRepo) Update(_ context.Context, paper *model.QuestionPaper) error {
	if _, ok := m.papers[paper.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *paper
	cp.Course = nil
	cp.Uploader = nil
	m.papers[paper.ID] = &cp
	return nil
}

func (m *mockPaperRepo) Delete(_ context.Context, id uint) error {
	delete(m.papers, id)
	return nil
}

func (m *mockPaperRepo) DistinctYears(_ context.Context) ([]int, error) {
	seen := make(map[int]bool)
	var years []int
	for _, p := range m.papers {
		if !seen[p.Year] {
			seen[p.Year] = true
			years = append(years, p.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (m *mockPaperRepo) DistinctSubjects(_ context.Context, filters *repository.PaperFilters) ([]string, error) {
	seen := make(map[string]bool)
	var subjects []string
	for _, p := range m.papers {
		if !matchFilters(p, filters) {
			continue
		}
		if !seen[p.Subject] {
			seen[p.Subject] = true
			subjects = append(subjects, p.Subject)
		}
	}
	sort.Strings(subjects)
	return subjects, nil
}

func (m *mockPaperRepo) preload(p *model.QuestionPaper) {
	if c, ok := m.courses.courses[p.CourseID]; ok {
		cp := *c
		p.Course = &cp
	}
	if u, ok := m.users.users[p.UploadedBy]; ok {
		cp := *u
		p.Uploader = &cp
	}
}

func matchFilters(p *model.QuestionPaper, filters *repository.PaperFilters) bool {
	if filters == nil {
		return true
	}
	if filters.CourseID != 0 && p.CourseID != filters.CourseID {
		return false
	}
	if filters.Year != 0 && p.Year != filters.Year {
		return false
	}
	if filters.Semester != 0 && p.Semester != filters.Semester {
		return false
	}
	return true
}

// ── 内存会话存储 ──

type memSessionStore struct {
	sessions map[string]*redis.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*redis.Session)}
}

func (m *memSessionStore) SaveSession(_ context.Context, sessionID string, sess *redis.Session, _ time.Duration) error {
	cp := *sess
	m.sessions[sessionID] = &cp
	return nil
}

func (m *memSessionStore) GetSession(_ context.Context, sessionID string) (*redis.Session, error) {
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, redis.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (m *memSessionStore) DeleteSession(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

// ── 内存文件存储 ──
// 记录每次写入的路径与内容，便于断言拒绝的上传未落盘

type memFileStore struct {
	saved   map[string][]byte
	removed []string
}

func newMemFileStore() *memFileStore {
	return &memFileStore{saved: make(map[string][]byte)}
}

func (m *memFileStore) Save(year, semester int, courseID uint, filename string, src io.Reader) (string, error) {
	// 与生产实现一致：先校验后缀，失败时不产生任何写入
	if !filestore.Allowed(filename) {
		return "", filestore.ErrExtensionNotAllowed
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("%s/%s", filestore.Subpath(year, semester, courseID), filestore.SanitizeFilename(filename))
	m.saved[path] = data
	return path, nil
}

func (m *memFileStore) Remove(path string) error {
	m.removed = append(m.removed, path)
	delete(m.saved, path)
	return nil
}
