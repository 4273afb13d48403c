package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/KasperFyhn/ulgis/internal/apierr"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/middleware"
	"github.com/KasperFyhn/ulgis/internal/types"
)

type fakeAuthService struct {
	token string
	name  string
	err   error
}

func (f *fakeAuthService) Register(ctx context.Context, name, password string) (*types.AdminUser, error) {
	return &types.AdminUser{Name: name}, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, name, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) VerifyToken(tokenString string) (string, error) {
	return f.name, f.err
}

func newAuthRouter(t *testing.T, service *fakeAuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	handler := NewAuthHandler(log, service)
	router := gin.New()
	router.POST("/auth/token", handler.Login)
	router.GET("/auth/current_user", func(c *gin.Context) {
		c.Set(middleware.AdminNameKey, "kasper")
	}, handler.CurrentUser)
	return router
}

func TestLogin(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{token: "signed-jwt"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"name": "kasper", "password": "hunter2"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Token != "signed-jwt" {
		t.Fatalf("token = %q", body.Token)
	}
}

func TestCurrentUser(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/current_user", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Name != "kasper" {
		t.Fatalf("name = %q", body.Name)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"name": "kasper"}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{
		err: apierr.New(http.StatusUnauthorized, "invalid_credentials",
			errors.New("invalid name or password")),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"name": "kasper", "password": "wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if envelope.Error.Code != "invalid_credentials" {
		t.Fatalf("code = %q", envelope.Error.Code)
	}
}
