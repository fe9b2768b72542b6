package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobbee-api/internal/config"
	userUsecase "jobbee-api/internal/usecase/user"
	appErrors "jobbee-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
	return c, w
}

func TestRespondWithErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing credentials", appErrors.ErrMissingCredentials, http.StatusBadRequest},
		{"duplicate email", appErrors.ErrUserAlreadyExists, http.StatusBadRequest},
		{"deadline passed", appErrors.ErrDeadlinePassed, http.StatusBadRequest},
		{"already applied", appErrors.ErrAlreadyApplied, http.StatusBadRequest},
		{"bad resume type", appErrors.ErrBadResumeType, http.StatusBadRequest},
		{"reset token invalid", appErrors.ErrResetTokenInvalid, http.StatusBadRequest},
		{"invalid credentials", appErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", appErrors.ErrUnauthorized, http.StatusUnauthorized},
		{"not job owner", appErrors.ErrNotJobOwner, http.StatusForbidden},
		{"insufficient permissions", appErrors.ErrInsufficientPermissions, http.StatusForbidden},
		{"user not found", appErrors.ErrUserNotFound, http.StatusNotFound},
		{"job not found", appErrors.ErrJobNotFound, http.StatusNotFound},
		{"email not sent", appErrors.ErrEmailNotSent, http.StatusInternalServerError},
		{"validation app error", appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", nil), http.StatusBadRequest},
		{"geocoding app error", appErrors.NewAppError("GEOCODING_FAILED", "Could not resolve location", nil), http.StatusBadRequest},
		{"upload app error", appErrors.NewAppError("UPLOAD_FAILED", "Resume upload failed", nil), http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			respondWithError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if success, _ := body["success"].(bool); success {
				t.Error("error responses must have success=false")
			}
		})
	}
}

func TestRespondWithErrorHidesDetailInProduction(t *testing.T) {
	Init("production")
	defer Init("development")

	c, w := newTestContext(t)
	respondWithError(c, errors.New("pq: connection refused"))

	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("production responses must not leak internal error detail")
	}
}

func TestSendTokenSetsSessionCookie(t *testing.T) {
	c, w := newTestContext(t)

	auth := &userUsecase.AuthResponse{
		User:  &userUsecase.UserResponse{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com", Role: "user"},
		Token: "signed.jwt.token",
	}
	cfg := &config.JWTConfig{CookieExpiryHours: 24}

	sendToken(c, http.StatusOK, auth, cfg)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" {
			cookie = ck
		}
	}
	if cookie == nil {
		t.Fatal("session cookie was not set")
	}
	if cookie.Value != "signed.jwt.token" {
		t.Errorf("cookie value = %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}
	if cookie.Secure {
		t.Error("cookie must not be secure on a plain-HTTP request")
	}
	if cookie.MaxAge != 24*3600 {
		t.Errorf("cookie max age = %d, want %d", cookie.MaxAge, 24*3600)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["token"] != "signed.jwt.token" {
		t.Error("token missing from response body")
	}
	data, _ := body["data"].(map[string]interface{})
	if data == nil {
		t.Fatal("user data missing from response body")
	}
	for _, forbidden := range []string{"password", "password_hashed", "reset_password_token"} {
		if _, ok := data[forbidden]; ok {
			t.Errorf("response leaks %q", forbidden)
		}
	}
}
