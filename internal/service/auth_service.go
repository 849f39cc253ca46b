package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/model"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
	"github.com/anmolm-9/Question-Paper2/pkg/jwt"
	"github.com/anmolm-9/Question-Paper2/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUsernameExists     = errors.New("用户名已存在")
	ErrEmailExists        = errors.New("邮箱已存在")
	ErrUserNotFound       = errors.New("用户不存在")
)

// AuthService 认证业务接口
type AuthService interface {
	// Register 公开注册；新用户始终为普通用户
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	// Login 用户名或邮箱 + 密码登录，成功后建立服务端会话
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	// Logout 销毁服务端会话
	Logout(ctx context.Context, sessionID string) error
	// Identify 从会话 ID 还原当前登录用户；会话不存在时返回 ErrSessionExpired
	Identify(ctx context.Context, sessionID string) (*redis.Session, error)
}

// ErrSessionExpired 会话不存在或已过期
var ErrSessionExpired = errors.New("会话已过期，请重新登录")

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	sessions SessionStore
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	sessions SessionStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		sessions: sessions,
		logger:   logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	// 检查用户名唯一性
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 检查邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	// 1. 按用户名查询，未命中再按邮箱查询
	user, err := s.repo.User.GetByUsername(ctx, req.Identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}
		user, err = s.repo.User.GetByEmail(ctx, req.Identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 建立服务端会话（绝对有效期 = SessionTTL）
	sessionID := uuid.New().String()
	sess := &redis.Session{
		UserID:    user.ID,
		IsAdmin:   user.IsAdmin,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.SaveSession(ctx, sessionID, sess, s.jwtMgr.SessionTTL()); err != nil {
		s.logger.Error("写入会话失败", zap.Error(err))
		return nil, err
	}

	// 4. 签名会话令牌（Cookie 值）
	token, err := s.jwtMgr.GenerateSessionToken(sessionID)
	if err != nil {
		s.logger.Error("生成会话令牌失败", zap.Error(err))
		return nil, err
	}

	return &dto.SessionResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		s.logger.Warn("删除会话失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Identify ──────────────────────

func (s *authService) Identify(ctx context.Context, sessionID string) (*redis.Session, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	return sess, nil
}

// ── 内部辅助方法 ──

// toUserResponse 将 model.User 转换为 dto.UserResponse
func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
