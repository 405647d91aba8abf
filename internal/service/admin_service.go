package service

import (
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AdminService handles admin-panel user management
type AdminService struct {
	users *repository.UserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(users *repository.UserRepository) *AdminService {
	return &AdminService{users: users}
}

// UserListResponse is a paginated admin user list
type UserListResponse struct {
	Items []domain.UserResponse `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ListUsers returns a paginated user list, optionally filtered by keyword
func (s *AdminService) ListUsers(page, limit int, keyword string) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.FindAll((page-1)*limit, limit, keyword)
	if err != nil {
		return nil, err
	}

	items := make([]domain.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *users[i].ToResponse())
	}
	return &UserListResponse{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// CreateUser creates an account with the given role
func (s *AdminService) CreateUser(req *domain.RegisterRequest, role string) (*domain.UserResponse, error) {
	exists, err := s.users.ExistsByUsername(req.Username)
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
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateUser changes role/vip/active flags of a user
func (s *AdminService) UpdateUser(userID int64, req *domain.AdminUpdateUserRequest) (*domain.UserResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	fields := map[string]interface{}{}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.IsVip != nil {
		fields["is_vip"] = *req.IsVip
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	user, err = s.users.FindByID(userID)
	if err != nil || user == nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// AdjustCoins applies a signed delta to a user's coin balance (floored at 0)
func (s *AdminService) AdjustCoins(userID int64, delta int64) (*domain.UserResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	if err := s.users.AdjustCoins(userID, delta); err != nil {
		return nil, err
	}

	user, err = s.users.FindByID(userID)
	if err != nil || user == nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// DeleteUser removes a user and all owned content
func (s *AdminService) DeleteUser(userID int64) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return common.ErrUserNotFound
	}
	return s.users.Delete(userID)
}
