package handlers

import (
	"net/http"
	"strings"

	"ticketbooking/internal/http/middleware"
	"ticketbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/register
func (h *Handlers) Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}
	user, err := h.auth(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/login
// Accepts email or username. The token is returned in the body and set as
// an HttpOnly cookie.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	login := strings.TrimSpace(req.Email)
	if login == "" {
		login = strings.TrimSpace(req.Username)
	}
	if login == "" || req.Password == "" {
		RespondError(c, http.StatusBadRequest, "Email and password are required!", nil)
		return
	}

	res, err := h.auth(c).Login(c.Request.Context(), login, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	maxAge := int(res.Session.ExpiresAt.Sub(res.Session.CreatedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, res.Token, maxAge, "/", "", h.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"token":   res.Token,
		"user":    res.User,
	})
}

// POST /api/logout
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.auth(c).Logout(c.Request.Context(), session(c).ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully!"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// POST /api/forgot-password
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if _, err := h.auth(c).ForgotPassword(c.Request.Context(), req.Email); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset link has been sent to your email."})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
	Password    string `json:"password"`
}

// POST /api/reset-password
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	pw := req.NewPassword
	if pw == "" {
		pw = req.Password
	}
	if err := h.auth(c).ResetPassword(c.Request.Context(), req.Token, pw); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful!"})
}

// GET /api/user
func (h *Handlers) CurrentUser(c *gin.Context) {
	user, err := h.auth(c).Profile(c.Request.Context(), session(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// PUT /api/user/update
func (h *Handlers) UpdateUser(c *gin.Context) {
	var req services.ProfileInput
	if !BindJSONOrError(c, &req) {
		return
	}
	user, err := h.auth(c).UpdateProfile(c.Request.Context(), session(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully!",
		"user":    user,
	})
}
