package handler

import (
	"net/http"

	"jobbee-api/internal/config"
	domainUser "jobbee-api/internal/domain/user"
	"jobbee-api/internal/middleware"
	userUsecase "jobbee-api/internal/usecase/user"
	appErrors "jobbee-api/pkg/errors"
	"jobbee-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler exposes authentication, account and admin endpoints.
type UserHandler struct {
	service *userUsecase.Service
	config  *config.Config
}

func NewUserHandler(service *userUsecase.Service, cfg *config.Config) *UserHandler {
	return &UserHandler{service: service, config: cfg}
}

// RegisterRoutes wires the public authentication endpoints.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/password/forgot", h.ForgotPassword)
	r.PUT("/password/reset/:token", h.ResetPassword)
}

// RegisterProtectedRoutes wires the endpoints behind the auth middleware.
func (h *UserHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/logout", h.Logout)
	r.GET("/me", h.GetProfile)
	r.PUT("/me/update", h.UpdateProfile)
	r.DELETE("/me/delete", h.DeleteAccount)
	r.PUT("/password/update", h.UpdatePassword)
}

// RegisterAdminRoutes wires the admin-only endpoints.
func (h *UserHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.GetAllUsers)
	r.DELETE("/user/:id", h.DeleteUser)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req userUsecase.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sendToken(c, http.StatusCreated, auth, &h.config.JWT)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req userUsecase.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sendToken(c, http.StatusOK, auth, &h.config.JWT)
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; the session only lives in the cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	secure := c.Request.TLS != nil
	c.SetCookie(middleware.SessionCookieName, "none", -1, "/", "", secure, true)

	utils.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req userUsecase.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	resetBaseURL := scheme + "://" + c.Request.Host

	message, err := h.service.ForgotPassword(c.Request.Context(), &req, resetBaseURL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, nil)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req userUsecase.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sendToken(c, http.StatusOK, auth, &h.config.JWT)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", profile)
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req userUsecase.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.service.UpdatePassword(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sendToken(c, http.StatusOK, auth, &h.config.JWT)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req userUsecase.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	secure := c.Request.TLS != nil
	c.SetCookie(middleware.SessionCookieName, "none", -1, "/", "", secure, true)

	utils.SuccessResponse(c, http.StatusOK, "Your account has been deleted", nil)
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.ListResponse(c, http.StatusOK, len(users), users)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), targetID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

// currentUserID reads the authenticated user's ID set by the auth
// middleware. A missing value means the middleware chain is broken.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		respondWithError(c, appErrors.ErrUnauthorized)
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return uuid.Nil, false
	}

	return userID, true
}

// currentUser builds the caller identity from the auth middleware context.
func currentUser(c *gin.Context) (*domainUser.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	return &domainUser.User{ID: userID, Role: domainUser.Role(roleStr)}, true
}
