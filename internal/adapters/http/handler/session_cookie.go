package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/daily-report/internal/adapters/session"
	"github.com/ogurasousui/daily-report/internal/core/auth"
)

// cookieSession はセッショントークンを HttpOnly Cookie で受け渡します。
type cookieSession struct {
	tokens *session.Issuer
	store  session.RevocationStore
	name   string
	secure bool
}

func (s *cookieSession) start(c *gin.Context, p auth.Principal) error {
	raw, _, err := s.tokens.Issue(p.Code, p.Role)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, raw, int(s.tokens.TTL().Seconds()), "/", "", s.secure, true)
	return nil
}

// current は Cookie のトークンを検証します。失効済みの場合は session.ErrRevoked を返します。
func (s *cookieSession) current(c *gin.Context) (session.Token, error) {
	raw, err := c.Cookie(s.name)
	if err != nil || raw == "" {
		return session.Token{}, session.ErrInvalidToken
	}

	tok, err := s.tokens.Parse(raw)
	if err != nil {
		return session.Token{}, err
	}

	revoked, err := s.store.IsRevoked(c.Request.Context(), tok.ID)
	if err != nil {
		return session.Token{}, err
	}
	if revoked {
		return session.Token{}, session.ErrRevoked
	}
	return tok, nil
}

// end はトークンを残り有効期間だけ失効させ、Cookie を削除します。
func (s *cookieSession) end(c *gin.Context) error {
	defer s.clear(c)

	raw, err := c.Cookie(s.name)
	if err != nil || raw == "" {
		return nil
	}

	tok, err := s.tokens.Parse(raw)
	if err != nil {
		return nil
	}
	return s.store.Revoke(c.Request.Context(), tok.ID, time.Until(tok.ExpiresAt))
}

func (s *cookieSession) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}
