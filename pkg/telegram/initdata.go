package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ==================== 类型定义 ====================

// WebAppUser Telegram Mini App 启动参数里的用户对象
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// LaunchContext 宿主环境提供的启动上下文
// 不同客户端版本给到的字段不一致，三个来源都可能为空：
//   - User:     已解析好的 initDataUnsafe.user
//   - InitData: 原始 initData 查询串
//   - PageURL:  页面完整 URL（部分跳转场景 initData 挂在 fragment/query 上）
type LaunchContext struct {
	User     *WebAppUser
	InitData string
	PageURL  string
}

// Absent 启动上下文是否完全为空
func (lc LaunchContext) Absent() bool {
	return lc.User == nil && lc.InitData == "" && lc.PageURL == ""
}

// ==================== 错误定义 ====================

var (
	ErrMissingHash   = errors.New("initData 缺少 hash 字段")
	ErrBadSignature  = errors.New("initData 签名校验失败")
	ErrStaleAuthDate = errors.New("initData 已过期")
	ErrMissingUser   = errors.New("initData 缺少有效 user 字段")
)

// DefaultMaxAge initData 的默认有效期
const DefaultMaxAge = time.Hour

// ==================== 身份提取 ====================

// IdentityCache 会话期内缓存最近一次成功提取的身份
// 宿主 SDK 异步加载时可能短暂丢失启动数据，靠缓存兜底
type IdentityCache struct {
	mu   sync.Mutex
	user *WebAppUser
}

// NewIdentityCache 创建缓存
func NewIdentityCache() *IdentityCache {
	return &IdentityCache{}
}

// Store 写入缓存
func (c *IdentityCache) Store(u WebAppUser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := u
	c.user = &clone
}

// Load 读取缓存
func (c *IdentityCache) Load() (WebAppUser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return WebAppUser{}, false
	}
	return *c.user, true
}

// ExtractIdentity 按固定优先级从启动上下文提取用户身份
// 顺序：结构化对象 > 原始 initData > 页面 URL > 会话缓存
// 提取失败返回 (zero, false)，绝不报错、绝不伪造身份
func ExtractIdentity(lc LaunchContext, cache *IdentityCache) (WebAppUser, bool) {
	// 1. 结构化对象直接可用（即使原始串不一致，也以结构化为准）
	if lc.User != nil && lc.User.ID > 0 {
		return *lc.User, true
	}

	// 2. 原始 initData 查询串
	if user, ok := parseUserFromInitData(lc.InitData); ok {
		if cache != nil {
			cache.Store(user)
		}
		return user, true
	}

	// 3. 跳转场景：initData 被挂到页面 URL 的 fragment 或 query 上
	if user, ok := parseUserFromPageURL(lc.PageURL); ok {
		if cache != nil {
			cache.Store(user)
		}
		return user, true
	}

	// 4. 会话缓存兜底
	if cache != nil {
		if user, ok := cache.Load(); ok {
			return user, true
		}
	}

	return WebAppUser{}, false
}

// parseUserFromInitData 从原始 initData 串解析 user 字段
func parseUserFromInitData(initData string) (WebAppUser, bool) {
	initData = strings.TrimSpace(initData)
	if initData == "" {
		return WebAppUser{}, false
	}

	vals, err := url.ParseQuery(initData)
	if err != nil {
		return WebAppUser{}, false
	}

	userRaw := vals.Get("user")
	if userRaw == "" {
		return WebAppUser{}, false
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		return WebAppUser{}, false
	}
	if user.ID <= 0 {
		return WebAppUser{}, false
	}
	return user, true
}

// parseUserFromPageURL 从页面 URL 提取启动数据
// Telegram 跳转时会把 initData 放在 #tgWebAppData=... 或 query 上
func parseUserFromPageURL(pageURL string) (WebAppUser, bool) {
	if pageURL == "" {
		return WebAppUser{}, false
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return WebAppUser{}, false
	}

	// fragment 优先：#tgWebAppData=<urlencoded initData>
	if u.Fragment != "" {
		if fragVals, err := url.ParseQuery(u.Fragment); err == nil {
			if raw := fragVals.Get("tgWebAppData"); raw != "" {
				if user, ok := parseUserFromInitData(raw); ok {
					return user, true
				}
			}
			// fragment 本身就是 initData 的情况
			if raw := fragVals.Get("user"); raw != "" {
				if user, ok := parseUserFromInitData(u.Fragment); ok {
					return user, true
				}
			}
		}
	}

	// query 兜底
	q := u.Query()
	if raw := q.Get("tgWebAppData"); raw != "" {
		if user, ok := parseUserFromInitData(raw); ok {
			return user, true
		}
	}
	if q.Get("user") != "" {
		if user, ok := parseUserFromInitData(u.RawQuery); ok {
			return user, true
		}
	}

	return WebAppUser{}, false
}

// ==================== 签名校验 ====================

// 可注入时钟，测试边界用
var timeNow = time.Now

// VerifyInitData 校验 initData 的 HMAC 签名和时效
// 算法见 Telegram 官方文档：
//  1. 取出 hash，剩余参数按 key 排序拼成 key=value\n... 的 data_check_string
//  2. secret = HMAC_SHA256(key="WebAppData", msg=botToken)
//  3. 期望值 = hex(HMAC_SHA256(key=secret, msg=data_check_string))
//
// maxAge <= 0 时使用 DefaultMaxAge。校验通过返回解析出的用户。
func VerifyInitData(initData string, botToken string, maxAge time.Duration) (WebAppUser, error) {
	initData = strings.TrimSpace(initData)
	if initData == "" {
		return WebAppUser{}, ErrMissingHash
	}

	vals, err := url.ParseQuery(initData)
	if err != nil {
		return WebAppUser{}, ErrMissingHash
	}

	providedHash := vals.Get("hash")
	if providedHash == "" {
		return WebAppUser{}, ErrMissingHash
	}
	vals.Del("hash")

	// data_check_string: 按 key 排序，key=value 用 \n 连接
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+vals.Get(k))
	}
	dataCheck := strings.Join(parts, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	secretKey := secret.Sum(nil)

	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(dataCheck))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(providedHash)) {
		return WebAppUser{}, ErrBadSignature
	}

	// 时效校验与签名校验分开报错，调用方要区分"伪造"和"过期"
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	authDate, err := strconv.ParseInt(vals.Get("auth_date"), 10, 64)
	if err != nil {
		return WebAppUser{}, ErrStaleAuthDate
	}
	if timeNow().Unix()-authDate >= int64(maxAge/time.Second) {
		return WebAppUser{}, ErrStaleAuthDate
	}

	// 签名合法但 user 字段缺失/坏掉，单独报错，别和伪造混在一起
	user, ok := parseUserFromInitData(initData)
	if !ok {
		return WebAppUser{}, ErrMissingUser
	}
	return user, nil
}

// SignInitData 用 botToken 给一组启动参数生成合法签名（测试/联调用）
func SignInitData(vals url.Values, botToken string) string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+vals.Get(k))
	}
	dataCheck := strings.Join(parts, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	secretKey := secret.Sum(nil)

	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(dataCheck))
	return hex.EncodeToString(mac.Sum(nil))
}
