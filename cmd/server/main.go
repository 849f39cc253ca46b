package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/api/handler"
	"github.com/anmolm-9/Question-Paper2/internal/api/router"
	"github.com/anmolm-9/Question-Paper2/internal/repository"
	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/database"
	"github.com/anmolm-9/Question-Paper2/pkg/filestore"
	"github.com/anmolm-9/Question-Paper2/pkg/jwt"
	applogger "github.com/anmolm-9/Question-Paper2/pkg/logger"
	"github.com/anmolm-9/Question-Paper2/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（会话存储依赖 Redis，连接失败直接终止）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Redis 连接失败，无法提供会话服务", zap.Error(err))
	}

	// 5. JWT 管理器与文件存储
	jwtMgr := jwt.NewManager(&cfg.Auth)

	files, err := filestore.NewStore(cfg.Upload.Dir, logger)
	if err != nil {
		logger.Fatal("初始化上传目录失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)

	// 6.1 首次启动引导：默认管理员与默认课程
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := service.Bootstrap(bootCtx, cfg, repo, logger); err != nil {
		bootCancel()
		logger.Fatal("初始化默认数据失败", zap.Error(err))
	}
	bootCancel()

	svc := service.NewService(cfg, repo, jwtMgr, rdb, files, logger)
	h := handler.NewHandler(cfg, svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, svc, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	rdb.Close()

	logger.Info("服务器已关闭")
}
