package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey gin context key，存放已认证用户 ID
const UserIDKey = "user_id"

// OwnerIDKey gin context key，存放购物车归属 ID（用户或会话）
const OwnerIDKey = "owner_id"

// SessionIDHeader 未登录用户的购物车会话标识
const SessionIDHeader = "X-Session-ID"

// RequireAuth 强制 Bearer Token 鉴权，缺失或无效时返回 401 并带 login_required 标记
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseBearerToken(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":           http.StatusUnauthorized,
				"message":        "authentication required",
				"login_required": true,
			})
			return
		}
		c.Set(UserIDKey, userID)
		c.Set(OwnerIDKey, userID)
		c.Next()
	}
}

// OptionalAuth 可选鉴权：有有效 Token 时取用户 ID，否则退回 X-Session-ID。
// 购物车按浏览器会话而非账号划分，两者都缺失时由 handler 拒绝。
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := parseBearerToken(c, secret); ok {
			c.Set(UserIDKey, userID)
			c.Set(OwnerIDKey, userID)
		} else if sessionID := c.GetHeader(SessionIDHeader); sessionID != "" {
			c.Set(OwnerIDKey, sessionID)
		}
		c.Next()
	}
}

// OwnerID 返回当前请求的购物车归属 ID
func OwnerID(c *gin.Context) string {
	if v, ok := c.Get(OwnerIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserID 返回当前已认证用户 ID，未认证时为空
func UserID(c *gin.Context) string {
	if v, ok := c.Get(UserIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func parseBearerToken(c *gin.Context, secret string) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
