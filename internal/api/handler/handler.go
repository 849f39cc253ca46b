package handler

import (
	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	Course *CourseHandler
	Paper  *PaperHandler
	User   *UserHandler
	Web    *WebHandler
	Admin  *AdminHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(cfg, svc.Auth),
		Course: NewCourseHandler(svc.Course),
		Paper:  NewPaperHandler(svc.Paper, svc.Export),
		User:   NewUserHandler(svc.User, svc.Auth),
		Web:    NewWebHandler(svc.Course, svc.Paper),
		Admin:  NewAdminHandler(svc.Course, svc.Paper),
	}
}
