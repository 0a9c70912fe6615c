package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ogurasousui/daily-report/internal/core/employee"
)

var (
	// ErrInvalidToken はトークンの署名・形式・有効期限のいずれかが不正な場合に返されます。
	ErrInvalidToken = errors.New("session: invalid token")
	// ErrRevoked はログアウト済みのトークンが使われた場合に返されます。
	ErrRevoked = errors.New("session: token revoked")
)

// Claims はセッショントークンに含める情報です。
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token はパース済みのセッショントークンです。
type Token struct {
	ID        string
	Code      string
	Role      employee.Role
	ExpiresAt time.Time
}

// Issuer は HS256 で署名したセッショントークンを発行・検証します。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer は Issuer を生成します。
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue は社員番号と権限からトークンを発行します。
func (i *Issuer) Issue(code string, role employee.Role) (string, Token, error) {
	if strings.TrimSpace(code) == "" {
		return "", Token{}, fmt.Errorf("session: subject is required")
	}

	now := i.now()
	tok := Token{
		ID:        uuid.NewString(),
		Code:      code,
		Role:      role,
		ExpiresAt: now.Add(i.ttl).Truncate(time.Second),
	}

	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tok.ID,
			Subject:   code,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(tok.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Token{}, fmt.Errorf("session: sign token: %w", err)
	}
	return signed, tok, nil
}

// Parse は署名と有効期限を検証してトークンを読み取ります。
func (i *Issuer) Parse(raw string) (Token, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Token{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return Token{}, ErrInvalidToken
	}

	return Token{
		ID:        claims.ID,
		Code:      claims.Subject,
		Role:      employee.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// TTL はトークンの有効期間を返します。
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
