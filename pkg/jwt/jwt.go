package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/anmolm-9/Question-Paper2/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// Claims 会话 Cookie 的签名载荷
// 仅携带服务端会话 ID，用户身份存于 Redis 会话记录中
type Claims struct {
	SessionID string `json:"session_id"`
	jwtv5.RegisteredClaims
}

// Manager 会话令牌管理器
// Cookie 值为 HS256 签名的 JWT，防止客户端伪造会话 ID
type Manager struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewManager 创建会话令牌管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:     []byte(cfg.SessionSecret),
		sessionTTL: cfg.SessionTTL,
	}
}

// SessionTTL 会话绝对有效期
func (m *Manager) SessionTTL() time.Duration {
	return m.sessionTTL
}

// GenerateSessionToken 为指定会话 ID 生成签名令牌
// 令牌有效期与服务端会话 TTL 一致
func (m *Manager) GenerateSessionToken(sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.sessionTTL)),
			Issuer:    "question-papers",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseSessionToken 解析并验证令牌，返回会话 ID
func (m *Manager) ParseSessionToken(tokenString string) (string, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrTokenInvalid
	}

	return claims.SessionID, nil
}
