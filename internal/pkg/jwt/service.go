package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Email    string    `json:"email,omitempty"`

	jwtlib.RegisteredClaims
}

type Service interface {
	Generate(tenantID uuid.UUID, email string) (string, error)
	Validate(tokenString string) (Claims, error)
}

// HMACService signs tenant tokens with a single shared secret. One
// token class is enough here; the API has no refresh flow.
type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret string, expiresIn time.Duration) *HMACService {
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func (s *HMACService) Generate(tenantID uuid.UUID, email string) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := s.now().UTC()
	claims := Claims{
		TenantID: tenantID,
		Email:    email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   tenantID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *HMACService) Validate(tokenString string) (Claims, error) {
	if s == nil || len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	token, err := jwtlib.ParseWithClaims(tokenString, &claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	}, jwtlib.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid || claims.TenantID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
