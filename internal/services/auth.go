package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KasperFyhn/ulgis/internal/apierr"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/repos"
	"github.com/KasperFyhn/ulgis/internal/types"
)

// AuthService authenticates admin users for the taxonomy write endpoints.
type AuthService interface {
	Register(ctx context.Context, name, password string) (*types.AdminUser, error)
	Login(ctx context.Context, name, password string) (string, error)
	VerifyToken(tokenString string) (string, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	adminUserRepo repos.AdminUserRepo
	jwtSecretKey  []byte
	tokenTTL      time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	adminUserRepo repos.AdminUserRepo,
	jwtSecretKey string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		adminUserRepo: adminUserRepo,
		jwtSecretKey:  []byte(jwtSecretKey),
		tokenTTL:      tokenTTL,
	}
}

func (as *authService) Register(ctx context.Context, name, password string) (*types.AdminUser, error) {
	if name == "" || password == "" {
		return nil, apierr.New(http.StatusUnprocessableEntity, "credentials_required",
			errors.New("name and password must not be empty"))
	}
	existing, err := as.adminUserRepo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "admin_lookup_failed", err)
	}
	if existing != nil {
		return nil, apierr.New(http.StatusConflict, "admin_exists",
			fmt.Errorf("admin user %q already exists", name))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "password_hash_failed", err)
	}
	user := &types.AdminUser{ID: uuid.New(), Name: name, PasswordHash: string(hash)}
	var created *types.AdminUser
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := as.adminUserRepo.Create(ctx, tx, []*types.AdminUser{user})
		if err != nil {
			return err
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "admin_create_failed", err)
	}
	as.log.Info("admin user created", "name", name)
	return created, nil
}

func (as *authService) Login(ctx context.Context, name, password string) (string, error) {
	user, err := as.adminUserRepo.GetByName(ctx, nil, name)
	if err != nil {
		return "", apierr.New(http.StatusInternalServerError, "admin_lookup_failed", err)
	}
	if user == nil {
		return "", apierr.New(http.StatusUnauthorized, "invalid_credentials",
			errors.New("unknown user or wrong password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apierr.New(http.StatusUnauthorized, "invalid_credentials",
			errors.New("unknown user or wrong password"))
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Name,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return "", apierr.New(http.StatusInternalServerError, "token_sign_failed", err)
	}
	as.log.Info("admin logged in", "name", name)
	return token, nil
}

// VerifyToken checks a bearer token and returns the admin name it was issued
// to.
func (as *authService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.jwtSecretKey, nil
	})
	if err != nil || !token.Valid {
		return "", apierr.New(http.StatusUnauthorized, "invalid_token",
			fmt.Errorf("verifying token: %w", err))
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apierr.New(http.StatusUnauthorized, "invalid_token",
			errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
