package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	// ScopeSync grants access to the manual sync and run journal endpoints.
	ScopeSync = "sync"
)

var ErrMissingSecret = errors.New("JWT_SECRET_KEY is not configured")

type Service interface {
	GenerateOperatorToken(subject string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateOperatorToken issues a token for the operator endpoints. subject
// names the operator or automation holding it and ends up in request logs.
func (j *JWTService) GenerateOperatorToken(subject string) (token string, expiresAt int64, err error) {
	if j.secretKey == "" {
		return "", 0, ErrMissingSecret
	}

	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid token expiration %q: %w", j.accessTokenExpirationTime, err)
	}
	now := time.Now()
	expiresAt = now.Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":   subject,
		"type":  TokenTypeAccess,
		"scope": ScopeSync,
		"iat":   now.Unix(),
		"exp":   expiresAt,
	})
	return tokenString, expiresAt, err
}
