package repository

import (
	"github.com/nexlink/nexlink-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository handles follow graph data operations
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts a follow edge; following an already-followed user is a no-op.
// Returns true when a new edge was created.
func (r *FollowRepository) Create(followerID, followingID int64) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Follow{FollowerID: followerID, FollowingID: followingID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a follow edge
func (r *FollowRepository) Delete(followerID, followingID int64) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.Follow{}).Error
}

// Exists reports whether follower follows following
func (r *FollowRepository) Exists(followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// FollowerIDs returns the IDs of users following the given user
func (r *FollowRepository) FollowerIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&domain.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// FollowingIDs returns the IDs of users the given user follows
func (r *FollowRepository) FollowingIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}
