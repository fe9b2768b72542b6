package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainUser "jobbee-api/internal/domain/user"
	"jobbee-api/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements the user domain repository on gorm.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt
	u.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", email).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", userID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domainUser.User, error) {
	var dbModels []models.UserModel
	if err := r.db.DB.WithContext(ctx).Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domainUser.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainUser.User) error {
	u.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":       u.Name,
			"email":      u.Email,
			"updated_at": u.UpdatedAt,
		})

	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "duplicate key value") {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hashed": passwordHash,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&models.UserModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash *string, expiresAt *time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_password_token":  tokenHash,
			"reset_password_expire": expiresAt,
			"updated_at":            time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("reset_password_expire IS NOT NULL AND reset_password_expire <= ?", now).
		Updates(map[string]interface{}{
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		PasswordHashed:      u.PasswordHashed,
		Role:                string(u.Role),
		ResetPasswordToken:  u.ResetPasswordToken,
		ResetPasswordExpire: u.ResetPasswordExpire,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:                  m.ID,
		Name:                m.Name,
		Email:               m.Email,
		PasswordHashed:      m.PasswordHashed,
		Role:                domainUser.Role(m.Role),
		ResetPasswordToken:  m.ResetPasswordToken,
		ResetPasswordExpire: m.ResetPasswordExpire,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
