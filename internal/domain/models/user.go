package models

// Role 用户角色
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// rank 角色等级，高等级拥有低等级的全部权限
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleOperator:
		return 2
	case RoleViewer:
		return 1
	}
	return 0
}

// Satisfies 判断当前角色是否满足所需角色
func (r Role) Satisfies(required Role) bool {
	return r.rank() >= required.rank() && r.rank() > 0
}

// User represents back-office accounts
type User struct {
	BaseModel
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	FullName string `gorm:"type:varchar(100)" json:"full_name"`
	Email    string `gorm:"type:varchar(100)" json:"email"`
	Role     Role   `gorm:"type:varchar(20);default:'viewer'" json:"role"`
	Status   string `gorm:"type:varchar(20);default:'active'" json:"status"`
}

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)
