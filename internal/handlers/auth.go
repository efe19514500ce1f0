package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/dto"
	apierrors "github.com/joinboard/join-api/internal/errors"
	"github.com/joinboard/join-api/internal/middleware"
	"github.com/joinboard/join-api/internal/services"
	"github.com/joinboard/join-api/internal/session"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new account.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Name            string `json:"name" binding:"required,min=2,max=100"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
		AcceptLegal     bool   `json:"acceptLegal"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}
	if req.Password != req.ConfirmPassword {
		apierrors.BadRequest(c, "Passwords do not match")
		return
	}
	if !req.AcceptLegal {
		apierrors.BadRequest(c, "Legal notice must be accepted")
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	// A fresh account starts from the login form, not a live session.
	if err := session.ClearRememberMe(c); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(user))
}

// Login authenticates a user and initializes the session snapshot.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Remember bool   `json:"remember"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	snap := h.authService.Snapshot(user)
	if err := session.SetActiveUser(c, snap); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}
	if err := session.SetGreetingShown(c, false); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	if req.Remember {
		err = session.SetRememberMe(c, &session.RememberMe{Email: req.Email, Password: req.Password})
	} else {
		err = session.ClearRememberMe(c)
	}
	if err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToActiveUserDTO(snap))
}

// Guest starts a session with the fixed guest identity. Nothing is
// written to the users collection.
func (h *AuthHandler) Guest(c *gin.Context) {
	snap := h.authService.GuestSnapshot()
	if err := session.SetActiveUser(c, snap); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}
	if err := session.SetGreetingShown(c, false); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToActiveUserDTO(snap))
}

// Logout drops the snapshot and the greeting flag. The remember-me pair
// stays for the next login form.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := session.Clear(c); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the active session snapshot.
func (h *AuthHandler) Me(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToActiveUserDTO(snap))
}

// Remembered returns the stored login prefill, if any.
func (h *AuthHandler) Remembered(c *gin.Context) {
	remember, ok := session.RememberedCredentials(c)
	if !ok {
		apierrors.NotFound(c, "No remembered credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":    remember.Email,
		"password": remember.Password,
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		respondStoreError(c, err)
	}
}
