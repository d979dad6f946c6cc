package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"unimaterials/internal/models"
	"unimaterials/internal/services"
)

type AuthHandler struct {
	authService  services.AuthService
	tokenService services.TokenService
}

func NewAuthHandler(authService services.AuthService, tokenService services.TokenService) *AuthHandler {
	return &AuthHandler{authService: authService, tokenService: tokenService}
}

// @Summary      Register with an institutional email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	_, err := h.authService.Register(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		case errors.Is(err, services.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		case errors.Is(err, services.ErrInvalidDomain):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Not a valid Uniport Email"})
		default:
			log.Printf("[auth][register] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent successfully",
		"email":   req.Email,
	})
}

// @Summary      Request a login OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req models.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	if err := h.authService.RequestOTP(req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			log.Printf("[auth][request-otp] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent successfully",
		"email":   req.Email,
	})
}

// @Summary      Verify an OTP and log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}
	if req.Email == "" || req.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}

	user, err := h.authService.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			log.Printf("[auth][verify-otp] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify OTP"})
		}
		return
	}

	h.respondWithToken(c, user)
}

// @Summary      Password login for admin accounts
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	user, err := h.authService.LoginWithPassword(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		log.Printf("[auth][login] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user *models.User) {
	token, err := h.tokenService.Issue(user)
	if err != nil {
		log.Printf("[auth][token] sign failed for user id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}
