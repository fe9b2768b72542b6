package handler

import (
	"errors"
	"net/http"

	"jobbee-api/internal/config"
	domainJob "jobbee-api/internal/domain/job"
	domainUser "jobbee-api/internal/domain/user"
	"jobbee-api/internal/logger"
	"jobbee-api/internal/middleware"
	userUsecase "jobbee-api/internal/usecase/user"
	appErrors "jobbee-api/pkg/errors"
	"jobbee-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var production bool

// Init configures handler-level behavior that depends on the runtime mode.
// Unrecognized errors include diagnostic detail only outside production.
func Init(environment string) {
	production = environment == "production"
}

// respondWithError is the single error-to-response translator: every
// handler failure funnels through here.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrMissingCredentials),
		errors.Is(err, appErrors.ErrInvalidUserRole),
		errors.Is(err, appErrors.ErrUserAlreadyExists),
		errors.Is(err, appErrors.ErrDeadlinePassed),
		errors.Is(err, appErrors.ErrAlreadyApplied),
		errors.Is(err, appErrors.ErrNoResume),
		errors.Is(err, appErrors.ErrBadResumeType),
		errors.Is(err, appErrors.ErrResumeTooLarge),
		errors.Is(err, appErrors.ErrResetTokenInvalid),
		errors.Is(err, appErrors.ErrInvalidInput),
		errors.Is(err, domainUser.ErrInvalidUserRole),
		errors.Is(err, domainUser.ErrUserAlreadyExists),
		errors.Is(err, domainUser.ErrResetTokenInvalid),
		errors.Is(err, domainJob.ErrAlreadyApplied):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrNotJobOwner),
		errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrUserNotFound),
		errors.Is(err, appErrors.ErrJobNotFound),
		errors.Is(err, domainUser.ErrUserNotFound),
		errors.Is(err, domainJob.ErrJobNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrEmailNotSent):
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case "UPLOAD_FAILED":
				utils.ErrorResponse(c, http.StatusInternalServerError, appErr.Message)
			default:
				utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			}
			return
		}

		requestID := middleware.GetRequestID(c)
		logger.Error("Internal server error",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)

		message := "Internal server error"
		if !production {
			message = err.Error()
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, message)
	}
}

// sendToken completes session issuance: the signed token is set as an
// HTTP-only cookie (secure only over TLS) and echoed in the JSON body
// alongside the safe user record.
func sendToken(c *gin.Context, status int, auth *userUsecase.AuthResponse, cfg *config.JWTConfig) {
	maxAge := cfg.CookieExpiryHours * 3600
	secure := c.Request.TLS != nil

	c.SetCookie(middleware.SessionCookieName, auth.Token, maxAge, "/", "", secure, true)

	c.JSON(status, utils.Response{
		Success: true,
		Token:   auth.Token,
		Data:    auth.User,
	})
}
