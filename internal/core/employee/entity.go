package employee

import "time"

// Role は社員の権限を表します。
type Role string

const (
	RoleGeneral Role = "GENERAL"
	RoleAdmin   Role = "ADMIN"
)

// Label は画面表示用の権限名を返します。
func (r Role) Label() string {
	switch r {
	case RoleGeneral:
		return "一般"
	case RoleAdmin:
		return "管理者"
	default:
		return string(r)
	}
}

// Employee は社員エンティティです。Password はハッシュ済みの値を保持します。
type Employee struct {
	Code       string
	Name       string
	Password   string
	Role       Role
	DeleteFlag bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin は管理者権限かどうかを返します。
func (e *Employee) IsAdmin() bool {
	return e != nil && e.Role == RoleAdmin
}
