package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== WriteRateLimiter 写操作限流器 ====================

// WriteRateLimiter 写操作限流器
// Mini App 里用户可以反复点按钮，按用户 + 动作做冷却，防止刷预约/刷评价
type WriteRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &WriteRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *WriteRateLimiter {
	return globalLimiter
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "user:123:booking"
// interval: 冷却间隔
func (r *WriteRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{
		Allowed:    true,
		RetryAfter: 0,
	}
}

// Reset 重置指定 key 的限流
func (r *WriteRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Key 生成工具 ====================

// ActionType 写动作类型
type ActionType string

const (
	ActionBooking ActionType = "booking"
	ActionReview  ActionType = "review"
	ActionUpload  ActionType = "upload"
)

// UserActionKey 生成用户级限流 Key
func UserActionKey(userID int64, action ActionType) string {
	return fmt.Sprintf("user:%d:%s", userID, action)
}

// ==================== 默认限流间隔 ====================

// DefaultIntervals 默认限流间隔配置
var DefaultIntervals = map[ActionType]time.Duration{
	ActionBooking: 30 * time.Second,
	ActionReview:  time.Minute,
	ActionUpload:  10 * time.Second,
}

// GetInterval 获取动作的默认间隔
func GetInterval(action ActionType) time.Duration {
	if interval, ok := DefaultIntervals[action]; ok {
		return interval
	}
	return 30 * time.Second
}

// ==================== Gin 中间件 ====================

// ThrottleAction 写操作限流中间件，需在 TelegramAuth 之后挂载
func ThrottleAction(action ActionType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			c.Next()
			return
		}

		result := globalLimiter.Check(UserActionKey(userID, action), GetInterval(action))
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":        429,
				"message":     "操作太频繁，请稍后再试",
				"retry_after": int(result.RetryAfter.Seconds()) + 1,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
