package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/model"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
)

// defaultCourses 首次启动时创建的默认课程集合
var defaultCourses = []model.Course{
	{Name: "Bachelor of Science in Computer Science", Code: "BSCCS"},
	{Name: "Bachelor of Science in Information Technology", Code: "BSCIT"},
	{Name: "Bachelor of Commerce", Code: "BCOM"},
}

// Bootstrap 首次启动引导：默认管理员与默认课程集合，均为不存在才创建
func Bootstrap(ctx context.Context, cfg *config.Config, repo *repository.Repository, logger *zap.Logger) error {
	if err := ensureAdminUser(ctx, cfg, repo, logger); err != nil {
		return err
	}
	return ensureDefaultCourses(ctx, repo, logger)
}

func ensureAdminUser(ctx context.Context, cfg *config.Config, repo *repository.Repository, logger *zap.Logger) error {
	_, err := repo.User.GetByUsername(ctx, cfg.Admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     cfg.Admin.Username,
		Email:        cfg.Admin.Email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("已创建默认管理员账号", zap.String("username", cfg.Admin.Username))
	return nil
}

func ensureDefaultCourses(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	for _, c := range defaultCourses {
		_, err := repo.Course.GetByCode(ctx, c.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		course := c
		if err := repo.Course.Create(ctx, &course); err != nil {
			return err
		}
		logger.Info("已创建默认课程", zap.String("code", course.Code))
	}
	return nil
}
