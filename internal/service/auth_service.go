package service

import (
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"github.com/nexlink/nexlink-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// LoginResponse login response
type LoginResponse struct {
	User         *domain.UserResponse `json:"user"`
	Token        string               `json:"token"`
	RefreshToken string               `json:"refresh_token"`
}

// AuthService authentication business logic
type AuthService struct {
	users      *repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(users *repository.UserRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{users: users, jwtManager: jwtManager}
}

// Register creates a new user account
func (s *AuthService) Register(req *domain.RegisterRequest) (*LoginResponse, error) {
	exists, err := s.users.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	exists, err = s.users.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Role:     domain.RoleUser,
		IsActive: true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(req *domain.LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(refreshToken string) (*LoginResponse, error) {
	userID, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}

	return s.issueTokens(user)
}

// Me returns the current user's profile
func (s *AuthService) Me(userID int64) (*domain.UserResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user.ToResponse(), nil
}

func (s *AuthService) issueTokens(user *domain.User) (*LoginResponse, error) {
	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		User:         user.ToResponse(),
		Token:        token,
		RefreshToken: refresh,
	}, nil
}
