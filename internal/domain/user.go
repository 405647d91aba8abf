package domain

import "time"

// Role constants
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User domain model
type User struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	Username  string    `gorm:"column:username;uniqueIndex;size:50" json:"username"`
	Email     string    `gorm:"column:email;uniqueIndex;size:191" json:"email"`
	Password  string    `gorm:"column:password" json:"-"`
	Name      string    `gorm:"column:name;size:100" json:"name"`
	Avatar    string    `gorm:"column:avatar" json:"avatar,omitempty"`
	Bio       string    `gorm:"column:bio;type:text" json:"bio,omitempty"`
	Role      string    `gorm:"column:role;default:USER;size:20" json:"role"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Coins     int64     `gorm:"column:coins;default:0" json:"coins"`
	IsVip     bool      `gorm:"column:is_vip;default:false" json:"is_vip"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse represents a user in API responses
type UserResponse struct {
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Role      string    `json:"role"`
	ID        int64     `json:"id"`
	Coins     int64     `json:"coins"`
	IsVip     bool      `json:"is_vip"`
	IsActive  bool      `json:"is_active"`
}

// UserSummary is the compact identity embedded in messages, rooms and notifications
type UserSummary struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	ID       int64  `json:"id"`
	IsVip    bool   `json:"is_vip"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Role:      u.Role,
		Coins:     u.Coins,
		IsVip:     u.IsVip,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToSummary converts User to UserSummary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
		IsVip:    u.IsVip,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// AdminUpdateUserRequest represents an admin user update request
type AdminUpdateUserRequest struct {
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=USER ADMIN"`
	IsVip    *bool   `json:"is_vip,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AdjustCoinsRequest represents an admin coin balance adjustment
type AdjustCoinsRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason,omitempty"`
}
