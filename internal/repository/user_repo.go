package repository

import (
	"errors"

	"github.com/nexlink/nexlink-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by ID, nil if not found
func (r *UserRepository) FindByID(id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns a user by username, nil if not found
func (r *UserRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns users for a set of IDs
func (r *UserRepository) FindByIDs(ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []domain.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// ExistsByUsername reports whether a username is taken
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail reports whether an email is taken
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Create inserts a new user
func (r *UserRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

// UpdateFields updates selected columns of a user
func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error
}

// AdjustCoins applies a delta to the user's coin balance, flooring at zero
func (r *UserRepository) AdjustCoins(id int64, delta int64) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Update("coins", gorm.Expr("CASE WHEN coins + ? < 0 THEN 0 ELSE coins + ? END", delta, delta)).Error
}

// FindAll returns a paginated user list, optionally filtered by keyword
func (r *UserRepository) FindAll(offset, limit int, keyword string) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	q := r.db.Model(&domain.User{})
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("username LIKE ? OR name LIKE ? OR email LIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Delete removes a user and cascades to owned content in one transaction
func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.PostLike{}).Error; err != nil {
			return err
		}
		var postIDs []int64
		if err := tx.Model(&domain.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&domain.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&domain.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("author_id = ?", id).Delete(&domain.Post{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&domain.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.PushSubscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.RoomMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, id).Error
	})
}
