package dto

import "time"

// ==================== 店铺 DTO ====================

// CreateBarbershopRequest 创建店铺请求
type CreateBarbershopRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Services    []string `json:"services"`
	Images      []string `json:"images"`
	OwnerID     int64    `json:"owner_id"`
}

// UpdateBarbershopRequest 更新店铺请求（零值字段不更新）
type UpdateBarbershopRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Phone       *string  `json:"phone"`
	Services    []string `json:"services"`
	Images      []string `json:"images"`
}

// BarbershopInfo 店铺信息
type BarbershopInfo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Services    []string  `json:"services"`
	Images      []string  `json:"images"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	OwnerID     int64     `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BarbershopListRequest 店铺列表请求
type BarbershopListRequest struct {
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// BarbershopListResponse 店铺列表响应
type BarbershopListResponse struct {
	List  []*BarbershopInfo `json:"list"`
	Total int64             `json:"total"`
}
