package dto

import "time"

// ==================== 预约 DTO ====================

// CreateBookingRequest 创建预约请求
type CreateBookingRequest struct {
	BarbershopID  int64     `json:"barbershop_id" binding:"required"`
	Service       string    `json:"service" binding:"required,max=255"`
	BookingAt     time.Time `json:"booking_at" binding:"required"`
	Note          string    `json:"note"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
}

// BookingInfo 预约信息
type BookingInfo struct {
	ID            int64           `json:"id"`
	BarbershopID  int64           `json:"barbershop_id"`
	Barbershop    *BarbershopInfo `json:"barbershop,omitempty"`
	UserID        int64           `json:"user_id"`
	User          *UserInfo       `json:"user,omitempty"`
	Service       string          `json:"service"`
	BookingAt     time.Time       `json:"booking_at"`
	Note          string          `json:"note,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BookingListRequest 预约列表请求
type BookingListRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// BookingListResponse 预约列表响应
type BookingListResponse struct {
	List  []*BookingInfo `json:"list"`
	Total int64          `json:"total"`
}
