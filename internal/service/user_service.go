package service

import (
	"fmt"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/repository"
)

// UserService handles profiles and the follow graph
type UserService struct {
	users         *repository.UserRepository
	follows       *repository.FollowRepository
	notifications *NotificationService
}

// NewUserService creates a new UserService
func NewUserService(
	users *repository.UserRepository,
	follows *repository.FollowRepository,
	notifications *NotificationService,
) *UserService {
	return &UserService{users: users, follows: follows, notifications: notifications}
}

// ProfileResponse is a user profile with follow-graph counts
type ProfileResponse struct {
	User           *domain.UserResponse `json:"user"`
	FollowerCount  int                  `json:"follower_count"`
	FollowingCount int                  `json:"following_count"`
	IsFollowing    bool                 `json:"is_following"`
	IsFriend       bool                 `json:"is_friend"`
}

// GetProfile returns a user's profile as seen by the viewer
func (s *UserService) GetProfile(viewerID, userID int64) (*ProfileResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	followerIDs, err := s.follows.FollowerIDs(userID)
	if err != nil {
		return nil, err
	}
	followingIDs, err := s.follows.FollowingIDs(userID)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		User:           user.ToResponse(),
		FollowerCount:  len(followerIDs),
		FollowingCount: len(followingIDs),
	}
	if viewerID != userID {
		resp.IsFollowing, err = s.follows.Exists(viewerID, userID)
		if err != nil {
			return nil, err
		}
		followsBack, err := s.follows.Exists(userID, viewerID)
		if err != nil {
			return nil, err
		}
		resp.IsFriend = resp.IsFollowing && followsBack
	}
	return resp, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *UserService) UpdateProfile(me int64, req *domain.UpdateProfileRequest) (*domain.UserResponse, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(me, fields); err != nil {
			return nil, err
		}
	}

	user, err := s.users.FindByID(me)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user.ToResponse(), nil
}

// Follow creates a follow edge and notifies the target. Following again is a
// no-op; following yourself is rejected.
func (s *UserService) Follow(me, targetID int64) error {
	if me == targetID {
		return common.ErrSelfFollow
	}

	target, err := s.users.FindByID(targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return common.ErrUserNotFound
	}

	created, err := s.follows.Create(me, targetID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	follower, err := s.users.FindByID(me)
	if err != nil || follower == nil {
		return nil
	}
	return s.notifications.Notify(targetID, domain.NotificationFollow,
		fmt.Sprintf("%s started following you", follower.Username), me, nil, nil)
}

// Unfollow removes a follow edge; unfollowing a non-followed user is a no-op
func (s *UserService) Unfollow(me, targetID int64) error {
	return s.follows.Delete(me, targetID)
}

// Followers lists the users following userID, with the mutual-follow flag
func (s *UserService) Followers(userID int64) ([]domain.FollowUserItem, error) {
	ids, err := s.follows.FollowerIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.followList(userID, ids)
}

// Following lists the users userID follows, with the mutual-follow flag
func (s *UserService) Following(userID int64) ([]domain.FollowUserItem, error) {
	ids, err := s.follows.FollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.followList(userID, ids)
}

func (s *UserService) followList(userID int64, ids []int64) ([]domain.FollowUserItem, error) {
	users, err := s.users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.FollowUserItem, 0, len(users))
	for i := range users {
		otherID := users[i].ID
		a, err := s.follows.Exists(userID, otherID)
		if err != nil {
			return nil, err
		}
		b, err := s.follows.Exists(otherID, userID)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.FollowUserItem{
			User:     *users[i].ToSummary(),
			IsFriend: a && b,
		})
	}
	return items, nil
}
