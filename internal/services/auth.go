package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/envutil"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

const RoleAdmin = "admin"

// AuthService authenticates moderation operators. Operators are provisioned
// through env config rather than a user table; the directory has no public
// accounts.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, time.Time, error)
	VerifyToken(tokenString string) (*ctxutil.OperatorData, error)
}

type operatorClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	adminEmail   string
	adminHash    string
	jwtSecretKey []byte
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger) (AuthService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	secret := strings.TrimSpace(envutil.String("JWT_SECRET", ""))
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	adminEmail := strings.ToLower(strings.TrimSpace(envutil.String("ADMIN_EMAIL", "")))
	adminHash := strings.TrimSpace(envutil.String("ADMIN_PASSWORD_HASH", ""))
	if adminEmail == "" || adminHash == "" {
		return nil, fmt.Errorf("missing ADMIN_EMAIL or ADMIN_PASSWORD_HASH")
	}

	ttl := time.Duration(envutil.Int("JWT_TTL_MINUTES", 12*60)) * time.Minute

	return &authService{
		log:          log.With("service", "AuthService"),
		adminEmail:   adminEmail,
		adminHash:    adminHash,
		jwtSecretKey: []byte(secret),
		accessTTL:    ttl,
	}, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", time.Time{}, fmt.Errorf("email and password required: %w", pkgerrors.ErrInvalidArgument)
	}

	// Compare against the hash even on an email mismatch to keep the two
	// failure modes timing-equivalent.
	hashErr := bcrypt.CompareHashAndPassword([]byte(as.adminHash), []byte(password))
	if email != as.adminEmail || hashErr != nil {
		as.log.Warn("Login rejected", "email", email)
		return "", time.Time{}, fmt.Errorf("invalid credentials: %w", pkgerrors.ErrUnauthorized)
	}

	expiresAt := time.Now().Add(as.accessTTL)
	claims := operatorClaims{
		Email: email,
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	as.log.Info("Operator logged in", "email", email)
	return token, expiresAt, nil
}

func (as *authService) VerifyToken(tokenString string) (*ctxutil.OperatorData, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &operatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return as.jwtSecretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w: %s", pkgerrors.ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*operatorClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", pkgerrors.ErrUnauthorized)
	}
	return &ctxutil.OperatorData{Email: claims.Email, Role: claims.Role}, nil
}
