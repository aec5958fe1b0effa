package model

// 用户角色常量
// 注意：角色只会向上提升（customer -> admin），解析层绝不降级
const (
	RoleCustomer = "customer" // 普通顾客
	RoleBarber   = "barber"   // 理发师（绑定到某个店铺）
	RoleAdmin    = "admin"    // 管理员（白名单指定）
)

// User Telegram 用户
// telegram_id 是平台侧的身份主键，带唯一索引；
// 并发首次登录时靠这个唯一索引兜底去重
type User struct {
	BaseModel
	TelegramID int64  `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FirstName  string `gorm:"size:100" json:"first_name"`
	LastName   string `gorm:"size:100" json:"last_name"`
	Username   string `gorm:"size:100;index" json:"username"`

	// 系统角色: customer / barber / admin
	Role string `gorm:"size:20;default:'customer'" json:"role"`

	// barber 角色绑定的店铺，其他角色为 0
	BarbershopID int64 `gorm:"index;default:0" json:"barbershop_id,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBarber 是否理发师
func (u *User) IsBarber() bool {
	return u.Role == RoleBarber
}
