package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/dto"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
	"github.com/anmolm-9/Question-Paper2/pkg/jwt"
)

// newAuthTestEnv 组装带内存依赖的认证服务
func newAuthTestEnv() (AuthService, *mockUserRepo, *memSessionStore, *jwt.Manager) {
	users := newMockUserRepo()
	courses := newMockCourseRepo()
	repo := &repository.Repository{
		User:   users,
		Course: courses,
		Paper:  newMockPaperRepo(courses, users),
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionSecret: "test-secret-0123456789abcdef",
			SessionTTL:    24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	sessions := newMemSessionStore()

	svc := NewAuthService(cfg, repo, jwtMgr, sessions, zap.NewNop())
	return svc, users, sessions, jwtMgr
}

func TestRegister(t *testing.T) {
	svc, _, _, _ := newAuthTestEnv()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if resp.Username != "alice" || resp.Email != "alice@example.com" {
		t.Errorf("返回的用户信息不匹配: %+v", resp)
	}
	if resp.IsAdmin {
		t.Error("公开注册的用户不应是管理员")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _, _ := newAuthTestEnv()
	ctx := context.Background()

	req := &dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}

	// 用户名重复
	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "secret123",
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("期望 ErrUsernameExists，实际: %v", err)
	}

	// 邮箱重复
	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Username: "bob", Email: "alice@example.com", Password: "secret123",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	svc, _, _, _ := newAuthTestEnv()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 用户名登录
	resp, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("用户名登录失败: %v", err)
	}
	if resp.Token == "" {
		t.Error("登录成功应返回会话令牌")
	}

	// 邮箱登录
	if _, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("邮箱登录失败: %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _, _ := newAuthTestEnv()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 密码错误
	_, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "alice", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("密码错误应返回 ErrInvalidCredentials，实际: %v", err)
	}

	// 用户不存在
	_, err = svc.Login(ctx, &dto.LoginRequest{Identifier: "nobody", Password: "secret123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用户不存在应返回 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	svc, _, _, jwtMgr := newAuthTestEnv()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	resp, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	// 令牌 → 会话 ID → 会话记录
	sessionID, err := jwtMgr.ParseSessionToken(resp.Token)
	if err != nil {
		t.Fatalf("解析会话令牌失败: %v", err)
	}
	sess, err := svc.Identify(ctx, sessionID)
	if err != nil {
		t.Fatalf("还原会话失败: %v", err)
	}
	if sess.UserID != resp.User.ID {
		t.Errorf("会话用户 ID 不匹配: 期望 %d，实际 %d", resp.User.ID, sess.UserID)
	}

	// 登出后会话失效
	if err := svc.Logout(ctx, sessionID); err != nil {
		t.Fatalf("登出失败: %v", err)
	}
	if _, err := svc.Identify(ctx, sessionID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("登出后应返回 ErrSessionExpired，实际: %v", err)
	}
}

func TestIdentifyUnknownSession(t *testing.T) {
	svc, _, _, _ := newAuthTestEnv()

	_, err := svc.Identify(context.Background(), "no-such-session")
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("未知会话应返回 ErrSessionExpired，实际: %v", err)
	}
}
