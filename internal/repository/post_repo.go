package repository

import (
	"errors"

	"github.com/nexlink/nexlink-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository handles post, comment and like data operations
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post
func (r *PostRepository) Create(post *domain.Post) error {
	return r.db.Create(post).Error
}

// FindByID returns a post by ID, nil if not found
func (r *PostRepository) FindByID(id int64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// FindByAuthors returns a recency-ordered page of posts by the given authors
func (r *PostRepository) FindByAuthors(authorIDs []int64, offset, limit int) ([]domain.Post, int64, error) {
	if len(authorIDs) == 0 {
		return nil, 0, nil
	}
	var posts []domain.Post
	var total int64

	q := r.db.Model(&domain.Post{}).Where("author_id IN ?", authorIDs)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Delete removes a post with its comments and likes
func (r *PostRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Post{}, id).Error
	})
}

// Like inserts a like; liking twice is a no-op. Returns true when newly liked.
func (r *PostRepository) Like(postID, userID int64) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.PostLike{PostID: postID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Unlike removes a like
func (r *PostRepository) Unlike(postID, userID int64) error {
	return r.db.Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&domain.PostLike{}).Error
}

// LikeCount returns the number of likes on a post
func (r *PostRepository) LikeCount(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// IsLikedBy reports whether the user liked the post
func (r *PostRepository) IsLikedBy(postID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateComment inserts a comment
func (r *PostRepository) CreateComment(comment *domain.Comment) error {
	return r.db.Create(comment).Error
}

// ListComments returns a post's comments in chronological order
func (r *PostRepository) ListComments(postID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.Where("post_id = ?", postID).Order("id ASC").Find(&comments).Error
	return comments, err
}
