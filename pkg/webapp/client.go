package webapp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"cutspace_v1_202509/pkg/telegram"
)

// ==================== 会话上下文客户端 ====================

// 提取重试策略：总计约 3 秒内有界重试，超出即进入 not-found 终态
const (
	extractAttempts = 10
	extractInterval = 300 * time.Millisecond
)

var (
	// ErrIdentityNotFound 身份提取在所有重试后仍未成功
	ErrIdentityNotFound = errors.New("未能提取 Telegram 用户身份")
	// ErrNotReady 尚未 Launch 成功就调用了需要会话的方法
	ErrNotReady = errors.New("会话尚未就绪")
)

// SessionUser 解析接口返回的用户信息
type SessionUser struct {
	ID         int64  `json:"id"`
	TelegramID string `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
	Role       string `json:"role"`
}

type authEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Token     string      `json:"token"`
		ExpiresAt time.Time   `json:"expires_at"`
		User      SessionUser `json:"user"`
	} `json:"data"`
}

// Client 面向小程序宿主的会话上下文客户端
// 持有提取出的 Telegram 身份，并调用解析接口换取会话
type Client struct {
	http    *resty.Client
	baseURL string
	cache   *telegram.IdentityCache

	attempts int
	interval time.Duration

	mu       sync.Mutex
	lc       telegram.LaunchContext
	identity telegram.WebAppUser
	ready    bool
	notFound bool
	token    string
	user     SessionUser
}

// NewClient 创建会话上下文客户端
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(5 * time.Second).
			SetHeader("User-Agent", "CutSpace-WebApp/1.0"),
		baseURL:  baseURL,
		cache:    telegram.NewIdentityCache(),
		attempts: extractAttempts,
		interval: extractInterval,
	}
}

// SetRetryPolicy 调整提取重试策略
func (c *Client) SetRetryPolicy(attempts int, interval time.Duration) {
	if attempts > 0 {
		c.attempts = attempts
	}
	if interval > 0 {
		c.interval = interval
	}
}

// Launch 从启动上下文提取身份并建立会话
// 提取失败会在几秒内有界重试（宿主注入 initData 可能滞后），
// 重试耗尽进入 not-found 终态；绝不降级为匿名身份
func (c *Client) Launch(ctx context.Context, lc telegram.LaunchContext) error {
	c.mu.Lock()
	c.lc = lc
	c.mu.Unlock()

	var identity telegram.WebAppUser
	var ok bool
	for attempt := 0; attempt < c.attempts; attempt++ {
		if identity, ok = telegram.ExtractIdentity(lc, c.cache); ok {
			break
		}
		// 最后一次失败直接收尾，不再白等一个间隔
		if attempt+1 == c.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.interval):
		}
	}

	if !ok {
		// 尝试已走完，UI 靠 Ready+NotFound 区分"还在提取"和"需要重新打开"
		c.mu.Lock()
		c.notFound = true
		c.ready = true
		c.mu.Unlock()
		return ErrIdentityNotFound
	}

	c.mu.Lock()
	c.identity = identity
	c.notFound = false
	c.mu.Unlock()

	// 无原始 initData 时只持有本地身份，不建立服务端会话
	if lc.InitData == "" {
		c.mu.Lock()
		c.ready = true
		c.mu.Unlock()
		return nil
	}

	return c.Refresh(ctx)
}

// Refresh 重新调用解析接口刷新会话 token 与角色
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	initData := c.lc.InitData
	c.mu.Unlock()

	if initData == "" {
		return ErrNotReady
	}

	var envelope authEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"init_data": initData}).
		SetResult(&envelope).
		SetError(&envelope).
		Post(c.baseURL + "/api/auth/telegram")
	if err != nil {
		return fmt.Errorf("解析接口调用失败: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("解析接口返回 %d: %s", resp.StatusCode(), envelope.Message)
	}

	c.mu.Lock()
	c.token = envelope.Data.Token
	c.user = envelope.Data.User
	c.ready = true
	c.mu.Unlock()
	return nil
}

// Identity 提取出的 Telegram 身份
func (c *Client) Identity() (telegram.WebAppUser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notFound || c.identity.ID == 0 {
		return telegram.WebAppUser{}, false
	}
	return c.identity, true
}

// User 服务端解析出的用户信息
func (c *Client) User() (SessionUser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user, c.ready && c.user.ID > 0
}

// Token 当前会话 token
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Ready 提取与解析流程是否已走完（成功或进入 not-found 终态）
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// NotFound 身份提取是否已进入 not-found 终态
func (c *Client) NotFound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notFound
}

// IsAdmin 服务端确认的管理员身份；未就绪一律返回 false
func (c *Client) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready && c.user.Role == "admin"
}
