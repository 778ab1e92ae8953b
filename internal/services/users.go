package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"civicos/internal/models"
	"civicos/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UserProfile is the signed-in user's view of their own account.
type UserProfile struct {
	models.Account
	Level string `json:"level"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. The unique email index decides duplicates.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be 1-50 characters", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
	if res.Error != nil {
		return nil, fmt.Errorf("register: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrDuplicateEmail
	}
	return &user, nil
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*UserProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &UserProfile{Account: user.Account(), Level: utils.CivicLevel(user.CivicPoints)}, nil
}
