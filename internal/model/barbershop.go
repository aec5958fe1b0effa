package model

import (
	"github.com/lib/pq"
)

// Barbershop 理发店
type Barbershop struct {
	BaseModel
	// 1. 基础信息
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"size:255" json:"address"`
	Phone       string `gorm:"size:30" json:"phone"`

	// 2. 展示内容
	// postgres text[]，sqlite 下测试时退化为序列化字符串
	Services pq.StringArray `gorm:"type:text[]" json:"services"`
	Images   pq.StringArray `gorm:"type:text[]" json:"images"`

	// 3. 评分（由评价服务重算后写回，接口层只读）
	Rating      float64 `gorm:"type:decimal(2,1);default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"review_count"`

	// 4. 归属
	OwnerID int64 `gorm:"index" json:"owner_id"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	// 5. 关联关系
	Reviews  []Review  `gorm:"foreignKey:BarbershopID" json:"reviews,omitempty"`
	Bookings []Booking `gorm:"foreignKey:BarbershopID" json:"bookings,omitempty"`
}

func (Barbershop) TableName() string {
	return "barbershops"
}
