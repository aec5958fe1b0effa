package model

import (
	"time"
)

// 预约状态常量
// 合法流转：pending -> accepted / rejected（店家操作）
//
//	pending -> expired（后台任务超时清理）
//
// accepted / rejected / expired 为终态，不允许再改
const (
	BookingStatusPending  = "pending"
	BookingStatusAccepted = "accepted"
	BookingStatusRejected = "rejected"
	BookingStatusExpired  = "expired"
)

// Booking 预约单
type Booking struct {
	BaseModel
	BarbershopID int64 `gorm:"index;not null" json:"barbershop_id"`
	UserID       int64 `gorm:"index;not null" json:"user_id"`

	// 预约内容
	Service   string    `gorm:"size:255;not null" json:"service"`
	BookingAt time.Time `gorm:"index;not null" json:"booking_at"` // 预约到店时间
	Note      string    `gorm:"type:text" json:"note"`

	// 联系方式（Telegram 资料可能缺手机号，下单时单独填）
	CustomerName  string `gorm:"size:100" json:"customer_name"`
	CustomerPhone string `gorm:"size:30" json:"customer_phone"`

	Status string `gorm:"size:20;index;default:'pending'" json:"status"`

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Barbershop *Barbershop `gorm:"foreignKey:BarbershopID" json:"barbershop,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsTerminal 是否终态
func (b *Booking) IsTerminal() bool {
	return b.Status != BookingStatusPending
}
