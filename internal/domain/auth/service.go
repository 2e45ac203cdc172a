package auth

import (
	"context"
	"time"
)

type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service struct {
	directory *Directory
	secret    string
	ttl       time.Duration
	now       func() time.Time
}

func NewService(directory *Directory, secret string, ttl time.Duration) *Service {
	return &Service{directory: directory, secret: secret, ttl: ttl, now: time.Now}
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	account, err := s.directory.Authenticate(username, password)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	token, err := GenerateToken(s.secret, Claims{Username: account.Username, Role: account.Role}, now, s.ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		Username:  account.Username,
		Role:      account.Role,
		ExpiresAt: now.Add(s.ttl).UTC(),
	}, nil
}

func (s *Service) Verify(token string) (*Claims, error) {
	return ParseToken(s.secret, token)
}
