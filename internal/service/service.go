package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
	"github.com/anmolm-9/Question-Paper2/pkg/jwt"
	"github.com/anmolm-9/Question-Paper2/pkg/redis"
)

// SessionStore 服务端会话存储接口
// 生产实现为 pkg/redis.Client；测试使用内存实现
type SessionStore interface {
	SaveSession(ctx context.Context, sessionID string, sess *redis.Session, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// FileStore 试卷文件存储接口
// 生产实现为 pkg/filestore.Store；测试使用内存实现
type FileStore interface {
	Save(year, semester int, courseID uint, filename string, src io.Reader) (string, error)
	Remove(path string) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth   AuthService
	User   UserService
	Course CourseService
	Paper  PaperService
	Export ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	sessions SessionStore,
	files FileStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(cfg, repo, jwtMgr, sessions, logger),
		User:   NewUserService(repo, logger),
		Course: NewCourseService(repo, logger),
		Paper:  NewPaperService(repo, files, logger),
		Export: NewExportService(repo, logger),
	}
}
