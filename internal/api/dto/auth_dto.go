package dto

import "time"

// ==================== 认证 DTO ====================

// TelegramAuthRequest Mini App 登录请求
// init_data 为 Telegram 注入的原始查询串，服务端校验签名
type TelegramAuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// AuthResponse 登录响应
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserInfo `json:"user"`
}

// UserInfo 用户信息
// telegram_id 在 JSON 里用字符串承载，避免前端 JS 丢精度
type UserInfo struct {
	ID           int64     `json:"id"`
	TelegramID   string    `json:"telegram_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name,omitempty"`
	Username     string    `json:"username,omitempty"`
	Role         string    `json:"role"`
	BarbershopID int64     `json:"barbershop_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetRoleRequest 管理员改角色请求
type SetRoleRequest struct {
	Role         string `json:"role" binding:"required,oneof=customer barber admin"`
	BarbershopID int64  `json:"barbershop_id"`
}

// UserListRequest 用户列表请求
type UserListRequest struct {
	Role     string `form:"role"`
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// UserListResponse 用户列表响应
type UserListResponse struct {
	List  []*UserInfo `json:"list"`
	Total int64       `json:"total"`
}
