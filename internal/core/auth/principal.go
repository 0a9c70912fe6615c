package auth

import "github.com/ogurasousui/daily-report/internal/core/employee"

// Principal はリクエストを行っているログイン社員です。
// サービスにはグローバル状態ではなく引数として明示的に渡されます。
type Principal struct {
	Code string
	Name string
	Role employee.Role
}

// IsAdmin は管理者権限かどうかを返します。
func (p Principal) IsAdmin() bool {
	return p.Role == employee.RoleAdmin
}

// FromEmployee は社員エンティティから Principal を組み立てます。
func FromEmployee(e *employee.Employee) Principal {
	return Principal{Code: e.Code, Name: e.Name, Role: e.Role}
}
