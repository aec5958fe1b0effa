package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cutspace_v1_202509/internal/config"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/service"
	"cutspace_v1_202509/pkg/telegram"
)

// ==================== Telegram 认证中间件 ====================

// Context Keys
const (
	ContextKeyUser   = "current_user"
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

// 请求头
const (
	HeaderInitData   = "X-Telegram-Init-Data"
	HeaderTelegramID = "X-Telegram-Id" // 仅开发模式
)

// TelegramAuth 认证中间件
// 认可三种凭证，按顺序尝试：
//  1. Authorization: Bearer <会话 Token>（登录接口换发）
//  2. X-Telegram-Init-Data: 原始 initData，每次请求重新验签
//  3. X-Telegram-Id: 裸 telegram id，仅 DevMode 下认可
func TelegramAuth(authSvc *service.AuthService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveRequestUser(c, authSvc, cfg)
		if err != nil {
			status, message := authErrorResponse(err)
			c.JSON(status, gin.H{
				"code":    status,
				"message": message,
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyRole, user.Role)
		c.Next()
	}
}

var errNoCredentials = errors.New("未提供认证信息")

func resolveRequestUser(c *gin.Context, authSvc *service.AuthService, cfg *config.Config) (*model.User, error) {
	ctx := c.Request.Context()

	// 1. 会话 Token
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, service.ErrInvalidToken
		}
		claims, err := authSvc.ParseToken(parts[1])
		if err != nil {
			return nil, err
		}
		return authSvc.GetUser(ctx, claims.UserID)
	}

	// 2. 原始 initData，每次请求验签
	if initData := c.GetHeader(HeaderInitData); initData != "" {
		tgUser, err := telegram.VerifyInitData(initData, cfg.BotToken, cfg.InitDataMaxAge)
		if err != nil {
			return nil, err
		}
		return authSvc.ResolveIdentity(ctx, tgUser)
	}

	// 3. 裸 id：生产环境绝不认可
	if cfg.DevMode {
		if raw := c.GetHeader(HeaderTelegramID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return nil, service.ErrInvalidIdentity
			}
			// 只带 id 的合成身份：不携带资料字段，避免覆盖已存的用户资料
			return authSvc.ResolveIdentity(ctx, telegram.WebAppUser{ID: id})
		}
	}

	return nil, errNoCredentials
}

// authErrorResponse 认证错误到 HTTP 响应的映射
// 过期和伪造分开提示，前端对过期会引导重新打开 Mini App
func authErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, errNoCredentials):
		return http.StatusUnauthorized, "未提供认证信息"
	case errors.Is(err, telegram.ErrStaleAuthDate):
		return http.StatusUnauthorized, "登录数据已过期，请重新打开小程序"
	case errors.Is(err, telegram.ErrMissingHash), errors.Is(err, telegram.ErrBadSignature), errors.Is(err, telegram.ErrMissingUser):
		return http.StatusUnauthorized, "登录数据校验失败"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "Token 无效或已过期"
	case errors.Is(err, service.ErrInvalidIdentity), errors.Is(err, service.ErrUserNotFound):
		return http.StatusUnauthorized, "身份无效"
	default:
		return http.StatusInternalServerError, "认证处理失败"
	}
}

// RequireRole 角色权限校验中间件
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "未获取到用户角色",
			})
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "无权限访问",
		})
		c.Abort()
	}
}

// ==================== 辅助函数 ====================

// CurrentUser 从 Context 获取当前用户
func CurrentUser(c *gin.Context) *model.User {
	if u, exists := c.Get(ContextKeyUser); exists {
		return u.(*model.User)
	}
	return nil
}

// GetUserID 从 Context 获取用户 ID
func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

// GetUserRole 从 Context 获取用户角色
func GetUserRole(c *gin.Context) string {
	if role, exists := c.Get(ContextKeyRole); exists {
		return role.(string)
	}
	return ""
}
