package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/anmolm-9/Question-Paper2/config"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在或已过期")

// Client Redis 客户端封装
// 当前用于服务端会话存储与登录限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 服务端会话存储 ──

const sessionPrefix = "session:"

// Session 服务端会话记录（Cookie 中仅保存签名后的会话 ID）
type Session struct {
	UserID    uint      `json:"user_id"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveSession 写入会话记录，TTL 为会话绝对有效期
func (c *Client) SaveSession(ctx context.Context, sessionID string, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	return c.rdb.Set(ctx, sessionPrefix+sessionID, data, ttl).Err()
}

// GetSession 读取会话记录；不存在或已过期返回 ErrSessionNotFound
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	data, err := c.rdb.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("反序列化会话失败: %w", err)
	}
	return &sess, nil
}

// DeleteSession 删除会话记录（登出）
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}

// ── 滑动窗口限流 ──

// CheckRateLimit 基于 Redis 的固定窗口计数限流
// 返回 false 表示窗口内请求数已超过 limit
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
