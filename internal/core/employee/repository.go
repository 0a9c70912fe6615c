package employee

import "context"

// Repository は社員永続化の抽象です。
// FindByCode と List は論理削除済みの行を返しません。ExistsByCode は論理削除済みの行も対象にします。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]*Employee, error)
}

// PasswordHasher はパスワードのハッシュ化を提供します。
type PasswordHasher interface {
	Hash(password string) (string, error)
}
