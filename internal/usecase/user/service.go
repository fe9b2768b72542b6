package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobbee-api/internal/config"
	domainJob "jobbee-api/internal/domain/job"
	domainUser "jobbee-api/internal/domain/user"
	"jobbee-api/internal/infrastructure/mail"
	"jobbee-api/internal/infrastructure/storage"
	"jobbee-api/internal/logger"
	jobUsecase "jobbee-api/internal/usecase/job"
	appErrors "jobbee-api/pkg/errors"
	"jobbee-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resetTokenTTL = 1 * time.Hour

// Service implements authentication, session issuance and account use cases.
type Service struct {
	userRepo domainUser.Repository
	jobRepo  domainJob.Repository
	store    storage.ResumeStore
	mailer   mail.Mailer
	config   *config.Config
}

func NewService(
	userRepo domainUser.Repository,
	jobRepo domainJob.Repository,
	store storage.ResumeStore,
	mailer mail.Mailer,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		store:    store,
		mailer:   mailer,
		config:   cfg,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	role := domainUser.Role(req.Role)
	if role == "" {
		role = domainUser.RoleUser
	}
	// Admin accounts are provisioned out of band, never via registration.
	if role == domainUser.RoleAdmin {
		return nil, appErrors.ErrInvalidUserRole
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domainUser.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHashed: hashedPassword,
		Role:           role,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			logger.Warn("Registration attempt with existing email",
				zap.String("email", req.Email),
				zap.String("event", "registration_failed_duplicate_email"),
			)
			return nil, appErrors.ErrUserAlreadyExists
		}
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.String("user_id", u.ID.String()),
		zap.String("email", u.Email),
		zap.String("role", string(u.Role)),
		zap.String("event", "user_registered"),
	)

	return s.issueSession(u)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)

	if req.Email == "" || req.Password == "" {
		return nil, appErrors.ErrMissingCredentials
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "login_failed_user_not_found"),
			)
			// Same sentinel as a password mismatch so responses
			// cannot be used as an account-existence oracle.
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
		zap.String("event", "login_success"),
	)

	return s.issueSession(u)
}

// ForgotPassword issues a reset token, persists its hash and mails the
// reset link. A mailer failure rolls the token back before reporting.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest, resetBaseURL string) (string, error) {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return "", appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return "", appErrors.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	resetToken, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}

	tokenHash := utils.HashResetToken(resetToken)
	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, u.ID, &tokenHash, &expiresAt); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/password/reset/%s", resetBaseURL, resetToken)
	body := fmt.Sprintf("Your password reset link is as follows:\n\n%s\n\n"+
		"If you have not requested this, please ignore this email.", resetURL)

	if err := s.mailer.Send(ctx, u.Email, "Jobbee API password recovery", body); err != nil {
		// Compensating rollback: the token must not stay live when the
		// user never received it.
		if rbErr := s.userRepo.SetResetToken(ctx, u.ID, nil, nil); rbErr != nil {
			logger.Error("Failed to roll back reset token after mail failure",
				zap.String("user_id", u.ID.String()),
				zap.Error(rbErr),
			)
		}
		logger.Error("Password reset email failed",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "password_reset_email_failed"),
			zap.Error(err),
		)
		return "", appErrors.ErrEmailNotSent
	}

	logger.Info("Password reset token issued",
		zap.String("user_id", u.ID.String()),
		zap.Time("expires_at", expiresAt),
		zap.String("event", "password_reset_token_issued"),
	)

	return fmt.Sprintf("Email sent successfully to %s", u.Email), nil
}

func (s *Service) ResetPassword(ctx context.Context, token string, req *ResetPasswordRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	u, err := s.userRepo.GetByResetToken(ctx, utils.HashResetToken(token), time.Now())
	if err != nil {
		if errors.Is(err, domainUser.ErrResetTokenInvalid) {
			return nil, appErrors.ErrResetTokenInvalid
		}
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, u.ID, hashedPassword); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetResetToken(ctx, u.ID, nil, nil); err != nil {
		return nil, err
	}

	logger.Info("Password reset completed",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "password_reset_completed"),
	)

	return s.issueSession(u)
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &ProfileResponse{User: ToUserResponse(u)}

	switch u.Role {
	case domainUser.RoleEmployer, domainUser.RoleAdmin:
		jobs, err := s.jobRepo.ListByOwner(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		profile.PublishedJobs = jobUsecase.ToResponses(jobs)
	default:
		jobs, err := s.jobRepo.ListAppliedBy(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		profile.AppliedJobs = jobUsecase.ToResponses(jobs)
	}

	return profile, nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, req *UpdatePasswordRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.CurrentPassword) {
		return nil, appErrors.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, u.ID, hashedPassword); err != nil {
		return nil, err
	}

	logger.Info("Password updated",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "password_updated"),
	)

	return s.issueSession(u)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if req.Name != nil {
		*req.Name = utils.SanitizeString(*req.Name)
	}
	if req.Email != nil {
		*req.Email = utils.SanitizeEmail(*req.Email)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	return ToUserResponse(u), nil
}

// DeleteAccount removes the user, their published jobs and, best-effort,
// every resume they uploaded.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	// Resumes the user submitted to other jobs.
	applications, err := s.jobRepo.ListApplicationsBy(ctx, u.ID)
	if err != nil {
		return err
	}
	for _, a := range applications {
		if err := s.store.Remove(ctx, a.Resume); err != nil {
			logger.Warn("Failed to remove resume during account deletion",
				zap.String("resume", a.Resume),
				zap.Error(err),
			)
		}
	}

	// Jobs the user published, including their applicants' resumes.
	published, err := s.jobRepo.ListByOwner(ctx, u.ID)
	if err != nil {
		return err
	}
	for _, j := range published {
		withApplicants, err := s.jobRepo.GetWithApplicants(ctx, j.ID)
		if err != nil {
			return err
		}
		for _, a := range withApplicants.Applicants {
			if err := s.store.Remove(ctx, a.Resume); err != nil {
				logger.Warn("Failed to remove applicant resume during account deletion",
					zap.String("resume", a.Resume),
					zap.Error(err),
				)
			}
		}
		if err := s.jobRepo.Delete(ctx, j.ID); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(ctx, u.ID); err != nil {
		return err
	}

	logger.Info("Account deleted",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "account_deleted"),
	)

	return nil
}

func (s *Service) GetAllUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses, nil
}

// DeleteUser is the admin-side variant of DeleteAccount.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.DeleteAccount(ctx, userID)
}

// issueSession signs a session token for the user. Signing failures are
// fatal to the request.
func (s *Service) issueSession(u *domainUser.User) (*AuthResponse, error) {
	token, expiresAt, err := utils.GenerateToken(
		u.ID,
		u.Email,
		string(u.Role),
		s.config.JWT.Secret,
		s.config.JWT.ExpiryHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &AuthResponse{
		User:      ToUserResponse(u),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
