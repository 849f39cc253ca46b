package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserSelfDelete = errors.New("不能删除自己的账号")
	ErrUserHasPapers  = errors.New("用户存在已上传的试卷，无法删除")
)

// UserService 用户业务接口
type UserService interface {
	// Profile 获取本人资料
	Profile(ctx context.Context, userID uint) (*dto.UserResponse, error)
	// UpdateProfile 更新本人资料（邮箱唯一性排除自身；密码非空时重新哈希）
	UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	// List 所有用户（仅管理员）
	List(ctx context.Context) ([]dto.UserResponse, error)
	// AdminUpdate 管理员更新任意用户（邮箱、管理员标记、密码重置）
	AdminUpdate(ctx context.Context, id uint, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	// Delete 管理员删除用户；禁止删除自己，禁止删除仍有上传试卷的用户
	Delete(ctx context.Context, id uint, callerID uint) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Profile ──────────────────────

func (s *userService) Profile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("id", userID), zap.Error(err))
		return nil, err
	}

	if req.Email != nil {
		// 检查邮箱唯一性（排除自身）
		existing, err := s.repo.User.GetByEmail(ctx, *req.Email)
		if err == nil && existing.ID != userID {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}

	// 密码为空串时不修改
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Uint("id", userID), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── AdminUpdate ──────────────────────

func (s *userService) AdminUpdate(ctx context.Context, id uint, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.Email != nil {
		existing, err := s.repo.User.GetByEmail(ctx, *req.Email)
		if err == nil && existing.ID != id {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}

	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id uint, callerID uint) error {
	if id == callerID {
		return ErrUserSelfDelete
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	// 用户仍是某些试卷的上传者时禁止删除（显式计数查询）
	count, err := s.repo.User.CountPapers(ctx, user.ID)
	if err != nil {
		s.logger.Error("统计用户试卷数失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrUserHasPapers
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	return nil
}
