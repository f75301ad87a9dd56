package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Identity is the authenticated principal attached to a request. The
// orchestration core never sees raw credentials, only this.
type Identity struct {
	Email string
	Role  string
}

type AuthService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashed, password string) bool
	IssueToken(email, role string) (string, error)
	CurrentUser(token string) (*Identity, error)
}

type authService struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (a *authService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (a *authService) VerifyPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

func (a *authService) IssueToken(email, role string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(a.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (a *authService) CurrentUser(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	email, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if email == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	return &Identity{Email: email, Role: role}, nil
}
