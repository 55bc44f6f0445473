package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

// Service gates the admin surface behind a single bcrypt-hashed password.
// A successful login is exchanged for a short-lived HS256 session token;
// there are no users, roles, or refresh tokens.
type Service struct {
	passwordHash []byte
	jwtSecret    []byte
	sessionTTL   time.Duration
}

func NewService(passwordHash string, jwtSecret string, sessionTTL time.Duration) (*Service, error) {
	if strings.TrimSpace(passwordHash) == "" {
		return nil, fmt.Errorf("admin password hash is not configured")
	}
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}

	return &Service{
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		sessionTTL:   sessionTTL,
	}, nil
}

func (s *Service) Login(password string) (model.SessionToken, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return model.SessionToken{}, apierror.New("UNAUTHORIZED", "invalid password", "", http.StatusUnauthorized)
	}

	expiresAt := time.Now().UTC().Add(s.sessionTTL)
	claims := jwt.MapClaims{
		"typ": "session",
		"sub": "admin",
		"iat": time.Now().UTC().Unix(),
		"exp": expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return model.SessionToken{}, fmt.Errorf("sign session token: %w", err)
	}

	return model.SessionToken{Token: signed, ExpiresAt: expiresAt.Format(time.RFC3339)}, nil
}

// ValidateToken checks the signature, expiry, and token type.
func (s *Service) ValidateToken(tokenString string) error {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return apierror.New("UNAUTHORIZED", "invalid or expired token", "", http.StatusUnauthorized)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return apierror.New("UNAUTHORIZED", "invalid token claims", "", http.StatusUnauthorized)
	}

	if typ, _ := claims["typ"].(string); typ != "session" {
		return apierror.New("UNAUTHORIZED", "invalid token type", "", http.StatusUnauthorized)
	}

	return nil
}

// HashPassword is used by the setup path to produce the configured hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
