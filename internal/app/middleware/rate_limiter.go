package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate       float64                   // 每秒允许的请求数
	Burst      int                       // 允许的突发请求数
	ExpiryTime time.Duration             // 闲置多久后回收限流器
	LimitType  string                    // 限流类型: "ip", "path", "combined", "custom"
	KeyFunc    func(*gin.Context) string // 自定义键生成函数
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       10,
	Burst:      20,
	ExpiryTime: 10 * time.Minute,
	LimitType:  "ip",
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet 按键保存令牌桶，闲置超过 expiry 的在下次访问时回收
type limiterSet struct {
	mu        sync.Mutex
	cfg       RateLimiterConfig
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newLimiterSet(cfg RateLimiterConfig) *limiterSet {
	return &limiterSet{cfg: cfg, entries: make(map[string]*limiterEntry), lastSweep: time.Now()}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.cfg.ExpiryTime > 0 && now.Sub(s.lastSweep) > s.cfg.ExpiryTime {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > s.cfg.ExpiryTime {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.cfg.Rate), s.cfg.Burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

// RateLimiter 创建限流中间件
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	cfg := DefaultRateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.LimitType == "" {
		cfg.LimitType = DefaultRateLimiterConfig.LimitType
	}
	limiters := newLimiterSet(cfg)

	return func(c *gin.Context) {
		var key string
		switch cfg.LimitType {
		case "path":
			key = c.FullPath()
		case "combined":
			key = c.ClientIP() + ":" + c.FullPath()
		case "custom":
			if cfg.KeyFunc != nil {
				key = cfg.KeyFunc(c)
				break
			}
			key = c.ClientIP()
		default:
			key = c.ClientIP()
		}

		if !limiters.allow(key) {
			response.Fail(c, code.TooManyRequests, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IPRateLimiter 按IP限流
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "ip", ExpiryTime: DefaultRateLimiterConfig.ExpiryTime})
}

// CombinedRateLimiter 按IP和路由组合限流
func CombinedRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "combined", ExpiryTime: DefaultRateLimiterConfig.ExpiryTime})
}
