package model

// Review 店铺评价
// 评分 1-5 整数，创建后触发店铺均分重算
type Review struct {
	BaseModel
	BarbershopID int64 `gorm:"index;not null" json:"barbershop_id"`
	UserID       int64 `gorm:"index;not null" json:"user_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Barbershop *Barbershop `gorm:"foreignKey:BarbershopID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
