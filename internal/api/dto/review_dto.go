package dto

import "time"

// ==================== 评价 DTO ====================

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	BarbershopID int64  `json:"barbershop_id" binding:"required"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Comment      string `json:"comment" binding:"max=2000"`
}

// ReviewInfo 评价信息
type ReviewInfo struct {
	ID           int64     `json:"id"`
	BarbershopID int64     `json:"barbershop_id"`
	UserID       int64     `json:"user_id"`
	User         *UserInfo `json:"user,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewListRequest 评价列表请求
type ReviewListRequest struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

// ReviewListResponse 评价列表响应
type ReviewListResponse struct {
	List  []*ReviewInfo `json:"list"`
	Total int64         `json:"total"`

	// 当前汇总评分，前端列表页顶部展示用
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
