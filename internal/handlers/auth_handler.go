package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/services"
)

type AuthHandler struct {
	AuthService *services.AuthService
}

func NewAuthHandler(a *services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: a}
}

// GoogleLogin is POST /api/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dtos.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.AuthService.GoogleLogin(c.Request.Context(), req.Token, req.IsExtension)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
