package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/logger"
	"github.com/stylefeed/stylefeed/pkg/queue"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo UserStore
	profiles *ProfileService
	producer EventPublisher
	logger   *logger.Logger
}

func NewUserService(userRepo UserStore, profiles *ProfileService, producer EventPublisher, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		profiles: profiles,
		producer: producer,
		logger:   logger,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=50"`
	DisplayName string `json:"display_name" binding:"max=50"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user and its single profile in one step, so every user
// the rest of the system sees has a profile.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username already exists", apperrors.ErrConflict)
	}

	existing, err = s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already exists", apperrors.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     string(hashedPassword),
		AuthProvider: "local",
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}
	profile, err := s.profiles.CreateProfile(ctx, user.ID, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	user.Profile = profile

	s.publishUserEvent(ctx, user)

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies credentials and returns the user; token issuance lives in
// the middleware package.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrForbidden)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is inactive", apperrors.ErrForbidden)
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user does not exist", apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *UserService) publishUserEvent(ctx context.Context, user *models.User) {
	if s.producer == nil {
		return
	}

	event, err := queue.NewEvent(queue.EventUserRegistered, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build user event")
		return
	}

	if err := s.producer.Publish(ctx, user.ID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish user event")
	}
}
