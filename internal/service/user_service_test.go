package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/model"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
)

func newUserTestEnv(t *testing.T) (UserService, *mockUserRepo) {
	t.Helper()
	users := newMockUserRepo()
	courses := newMockCourseRepo()
	repo := &repository.Repository{
		User:   users,
		Course: courses,
		Paper:  newMockPaperRepo(courses, users),
	}

	// 基础数据：管理员 (ID=1) 与普通用户 (ID=2)
	ctx := context.Background()
	if err := users.Create(ctx, &model.User{
		Username: "admin", Email: "admin@questionpapers.com", IsAdmin: true,
	}); err != nil {
		t.Fatalf("准备管理员失败: %v", err)
	}
	if err := users.Create(ctx, &model.User{
		Username: "alice", Email: "alice@example.com",
	}); err != nil {
		t.Fatalf("准备用户失败: %v", err)
	}

	return NewUserService(repo, zap.NewNop()), users
}

func TestProfile(t *testing.T) {
	svc, _ := newUserTestEnv(t)

	resp, err := svc.Profile(context.Background(), 2)
	if err != nil {
		t.Fatalf("查询资料失败: %v", err)
	}
	if resp.Username != "alice" || resp.IsAdmin {
		t.Errorf("资料不匹配: %+v", resp)
	}

	if _, err := svc.Profile(context.Background(), 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, users := newUserTestEnv(t)
	ctx := context.Background()

	newEmail := "alice-new@example.com"
	newPassword := "newpass123"
	resp, err := svc.UpdateProfile(ctx, 2, &dto.UpdateProfileRequest{
		Email:    &newEmail,
		Password: &newPassword,
	})
	if err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}
	if resp.Email != newEmail {
		t.Errorf("邮箱未更新: %s", resp.Email)
	}

	// 密码应已重新哈希
	stored := users.users[2]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(newPassword)); err != nil {
		t.Errorf("新密码校验失败: %v", err)
	}

	// 占用他人邮箱
	taken := "admin@questionpapers.com"
	_, err = svc.UpdateProfile(ctx, 2, &dto.UpdateProfileRequest{Email: &taken})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("邮箱冲突应返回 ErrEmailExists，实际: %v", err)
	}

	// 保持自己的邮箱不算冲突
	own := newEmail
	if _, err := svc.UpdateProfile(ctx, 2, &dto.UpdateProfileRequest{Email: &own}); err != nil {
		t.Errorf("保持原邮箱不应报冲突: %v", err)
	}
}

func TestUpdateProfileEmptyPasswordIgnored(t *testing.T) {
	svc, users := newUserTestEnv(t)
	ctx := context.Background()

	users.users[2].PasswordHash = "original-hash"
	empty := ""
	if _, err := svc.UpdateProfile(ctx, 2, &dto.UpdateProfileRequest{Password: &empty}); err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if users.users[2].PasswordHash != "original-hash" {
		t.Error("空密码不应触发重新哈希")
	}
}

func TestAdminUpdateUser(t *testing.T) {
	svc, users := newUserTestEnv(t)
	ctx := context.Background()

	makeAdmin := true
	resp, err := svc.AdminUpdate(ctx, 2, &dto.AdminUpdateUserRequest{IsAdmin: &makeAdmin})
	if err != nil {
		t.Fatalf("管理员更新失败: %v", err)
	}
	if !resp.IsAdmin {
		t.Error("管理员标记未生效")
	}
	if !users.users[2].IsAdmin {
		t.Error("管理员标记未持久化")
	}
}

func TestDeleteUser(t *testing.T) {
	svc, users := newUserTestEnv(t)
	ctx := context.Background()

	// 禁止删除自己
	if err := svc.Delete(ctx, 1, 1); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("删除自己应返回 ErrUserSelfDelete，实际: %v", err)
	}

	// 有上传试卷的用户禁止删除
	users.paperCounts[2] = 1
	if err := svc.Delete(ctx, 2, 1); !errors.Is(err, ErrUserHasPapers) {
		t.Errorf("有试卷的用户删除应返回 ErrUserHasPapers，实际: %v", err)
	}

	// 清空计数后可删除
	users.paperCounts[2] = 0
	if err := svc.Delete(ctx, 2, 1); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := svc.Profile(ctx, 2); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("删除后查询应返回 ErrUserNotFound，实际: %v", err)
	}

	// 删除不存在的用户
	if err := svc.Delete(ctx, 999, 1); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
