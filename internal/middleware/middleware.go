package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/KeaPin/gameshare/internal/core/config"
	"github.com/KeaPin/gameshare/internal/core/logger"
)

// RequestIDHeader 响应头里的请求追踪 ID
const RequestIDHeader = "X-Request-ID"

// RequestIDMW 请求 ID 中间件，snowflake 生成，日志和响应头都带上
func RequestIDMW(node *snowflake.Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := node.Generate().String()
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware 请求日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.Info("request",
			logger.String("request_id", c.GetString("request_id")),
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.Int("status", status),
			logger.Duration("latency", latency),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}

// RecoveryMiddleware 异常恢复中间件
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					logger.String("request_id", c.GetString("request_id")),
					logger.String("error", fmt.Sprintf("%v", err)))
				c.AbortWithStatusJSON(500, gin.H{
					"code": 500,
					"msg":  "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware 跨域中间件 (从配置文件读取)
func CORSMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	corsCfg := cfg.Security.CORS

	if !corsCfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		if len(corsCfg.AllowedOrigins) == 0 {
			allowed = true
		} else {
			for _, o := range corsCfg.AllowedOrigins {
				if o == origin || o == "*" {
					allowed = true
					break
				}
			}
		}

		if allowed {
			if origin == "" && !corsCfg.AllowCredentials {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		}

		c.Header("Access-Control-Allow-Methods", strings.Join(corsCfg.AllowedMethods, ", "))
		c.Header("Access-Control-Allow-Headers", strings.Join(corsCfg.AllowedHeaders, ", "))
		c.Header("Access-Control-Allow-Credentials", fmt.Sprintf("%t", corsCfg.AllowCredentials))
		c.Header("Access-Control-Max-Age", fmt.Sprintf("%d", corsCfg.MaxAge))

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// AdminClaims 管理端 JWT Claims
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTMW JWT中间件，管理端接口鉴权
func JWTMW(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  "unauthorized",
			})
			return
		}

		if !strings.HasPrefix(token, "Bearer ") {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  "invalid token format: missing 'Bearer ' prefix",
			})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := ParseJWT(token, cfg.Secret)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  "invalid token",
			})
			return
		}

		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}

		c.Next()
	}
}

// ParseJWT 解析JWT
func ParseJWT(tokenString, secret string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return map[string]interface{}(claims), nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GenerateToken 生成管理端 JWT Token
func GenerateToken(username string, cfg *config.JWTConfig) (string, error) {
	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.Expiry) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "gameshare",
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
