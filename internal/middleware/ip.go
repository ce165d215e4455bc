package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/KeaPin/gameshare/internal/core/config"
	"github.com/KeaPin/gameshare/internal/core/logger"
)

// IPWhitelistConfig IP 白名单配置
type IPWhitelistConfig struct {
	AllowIPs []string // 允许的 IP 列表（支持 CIDR）
	DenyIPs  []string // 拒绝的 IP 列表
}

// ipChecker IP 检查器
type ipChecker struct {
	allowNets []*net.IPNet
	denyNets  []*net.IPNet
	allowSet  map[string]bool
	denySet   map[string]bool
}

func newIPChecker(cfg *IPWhitelistConfig) *ipChecker {
	c := &ipChecker{
		allowSet: make(map[string]bool),
		denySet:  make(map[string]bool),
	}

	for _, ip := range cfg.AllowIPs {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}
		if _, ipNet, err := net.ParseCIDR(ip); err == nil {
			c.allowNets = append(c.allowNets, ipNet)
		} else {
			c.allowSet[ip] = true
		}
	}

	for _, ip := range cfg.DenyIPs {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}
		if _, ipNet, err := net.ParseCIDR(ip); err == nil {
			c.denyNets = append(c.denyNets, ipNet)
		} else {
			c.denySet[ip] = true
		}
	}

	return c
}

// isLocalIP localhost / loopback / IPv4 内网段
func isLocalIP(ipStr string) bool {
	if ipStr == "localhost" || ipStr == "127.0.0.1" || ipStr == "::1" {
		return true
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	if ipv4 := ip.To4(); ipv4 != nil {
		if ipv4[0] == 192 && ipv4[1] == 168 {
			return true
		}
		if ipv4[0] == 10 {
			return true
		}
		if ipv4[0] == 172 && ipv4[1] >= 16 && ipv4[1] <= 31 {
			return true
		}
		if ipv4[0] == 127 {
			return true
		}
	}

	return ip.IsLoopback()
}

// isAllowed 黑名单优先，其次白名单
func (c *ipChecker) isAllowed(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	for _, ipNet := range c.denyNets {
		if ipNet.Contains(ip) {
			return false
		}
	}
	if c.denySet[ipStr] {
		return false
	}

	for _, ipNet := range c.allowNets {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return c.allowSet[ipStr]
}

// AdminWhitelistMW 管理端 IP 白名单中间件
// 本地/内网 IP 自动放行，外网只允许白名单内的 IP
func AdminWhitelistMW() gin.HandlerFunc {
	cfg := config.Get()
	checker := newIPChecker(&IPWhitelistConfig{
		AllowIPs: cfg.Security.AllowIPs,
		DenyIPs:  cfg.Security.DenyIPs,
	})

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		realIP := c.GetHeader("X-Real-IP")

		// 代理场景优先看 X-Real-IP
		if realIP != "" && (isLocalIP(realIP) || checker.isAllowed(realIP)) {
			c.Next()
			return
		}

		if isLocalIP(clientIP) || checker.isAllowed(clientIP) {
			c.Next()
			return
		}

		logger.Warn("admin access denied: IP not in whitelist",
			logger.String("ip", clientIP),
			logger.String("real_ip", realIP),
			logger.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code": 403,
			"msg":  "access denied: IP not in whitelist",
		})
	}
}

// IPLimiter IP 频率限制器
// Redis 固定窗口计数，多实例共享配额；Redis 不可用时退回进程内计数
type IPLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration

	mu     sync.Mutex
	visits map[string][]int64
}

// NewIPLimiter 创建IP限制器，rdb 可以为 nil（纯内存模式）
func NewIPLimiter(rdb *redis.Client, limit int, window time.Duration) *IPLimiter {
	return &IPLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		visits: make(map[string][]int64),
	}
}

// Allow 检查是否允许访问
func (l *IPLimiter) Allow(ctx context.Context, ip string) bool {
	if l.limit <= 0 {
		return true
	}
	if l.rdb != nil {
		if ok, err := l.allowRedis(ctx, ip); err == nil {
			return ok
		}
	}
	return l.allowLocal(ip)
}

func (l *IPLimiter) allowRedis(ctx context.Context, ip string) (bool, error) {
	windowID := time.Now().Unix() / int64(l.window.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%d", ip, windowID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
	return count <= int64(l.limit), nil
}

func (l *IPLimiter) allowLocal(ip string) bool {
	now := time.Now().Unix()
	windowSec := int64(l.window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()

	var valid []int64
	for _, ts := range l.visits[ip] {
		if now-ts < windowSec {
			valid = append(valid, ts)
		}
	}
	l.visits[ip] = valid

	if len(l.visits[ip]) >= l.limit {
		return false
	}
	l.visits[ip] = append(l.visits[ip], now)
	return true
}

// RateLimitMW 频率限制中间件
func RateLimitMW(limiter *IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.Allow(c.Request.Context(), ip) {
			logger.Warn("rate limit exceeded",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": 429,
				"msg":  "too many requests",
			})
			return
		}

		c.Next()
	}
}
