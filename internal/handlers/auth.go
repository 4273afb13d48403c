package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/middleware"
	"github.com/KasperFyhn/ulgis/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
	}
}

type loginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_login", err)
		return
	}
	token, err := h.authService.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		h.log.Warn("Login failed", "name", req.Name, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"token": token})
}

// CurrentUser echoes the admin name resolved by the auth middleware.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	RespondOK(c, gin.H{"name": c.GetString(middleware.AdminNameKey)})
}
