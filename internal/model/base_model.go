package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== 公共字段 ====================

// BaseModel 所有业务表的公共字段
// DeletedAt 软删除：用户、店铺、评价、预约都只标记不物理删
type BaseModel struct {
	ID        int64          `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
