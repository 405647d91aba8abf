package service

import (
	"fmt"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/repository"
)

// PostService handles posts, likes and comments
type PostService struct {
	posts         *repository.PostRepository
	users         *repository.UserRepository
	follows       *repository.FollowRepository
	notifications *NotificationService
}

// NewPostService creates a new PostService
func NewPostService(
	posts *repository.PostRepository,
	users *repository.UserRepository,
	follows *repository.FollowRepository,
	notifications *NotificationService,
) *PostService {
	return &PostService{posts: posts, users: users, follows: follows, notifications: notifications}
}

// Create persists a new post
func (s *PostService) Create(me int64, req *domain.CreatePostRequest) (*domain.PostResponse, error) {
	if req.Content == "" && len(req.Media) == 0 {
		return nil, common.ErrInvalidInput
	}

	post := &domain.Post{
		AuthorID: me,
		Content:  req.Content,
		Media:    req.Media,
	}
	if err := s.posts.Create(post); err != nil {
		return nil, err
	}
	return s.toResponse(post, me)
}

// Get returns a post as seen by the viewer
func (s *PostService) Get(viewerID, postID int64) (*domain.PostResponse, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, common.ErrPostNotFound
	}
	return s.toResponse(post, viewerID)
}

// Delete removes a post; author only
func (s *PostService) Delete(me, postID int64) error {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return common.ErrPostNotFound
	}
	if post.AuthorID != me {
		return common.ErrForbidden
	}
	return s.posts.Delete(postID)
}

// Feed returns a recency-ordered page of posts from me and the users I follow
func (s *PostService) Feed(me int64, page, limit int) ([]domain.PostResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	authorIDs, err := s.follows.FollowingIDs(me)
	if err != nil {
		return nil, 0, err
	}
	authorIDs = append(authorIDs, me)

	posts, total, err := s.posts.FindByAuthors(authorIDs, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.PostResponse, 0, len(posts))
	for i := range posts {
		resp, err := s.toResponse(&posts[i], me)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// UserPosts returns a page of one user's posts
func (s *PostService) UserPosts(viewerID, userID int64, page, limit int) ([]domain.PostResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := s.posts.FindByAuthors([]int64{userID}, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.PostResponse, 0, len(posts))
	for i := range posts {
		resp, err := s.toResponse(&posts[i], viewerID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// Like likes a post and notifies the author; liking twice or liking your own
// post never produces a notification
func (s *PostService) Like(me, postID int64) error {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return common.ErrPostNotFound
	}

	created, err := s.posts.Like(postID, me)
	if err != nil {
		return err
	}
	if !created || post.AuthorID == me {
		return nil
	}

	liker, err := s.users.FindByID(me)
	if err != nil || liker == nil {
		return nil
	}
	return s.notifications.Notify(post.AuthorID, domain.NotificationLike,
		fmt.Sprintf("%s liked your post", liker.Username), me, &postID, nil)
}

// Unlike removes a like
func (s *PostService) Unlike(me, postID int64) error {
	return s.posts.Unlike(postID, me)
}

// Comment adds a comment and notifies the post author (unless commenting on
// one's own post)
func (s *PostService) Comment(me, postID int64, req *domain.CreateCommentRequest) (*domain.CommentResponse, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, common.ErrPostNotFound
	}

	comment := &domain.Comment{PostID: postID, AuthorID: me, Content: req.Content}
	if err := s.posts.CreateComment(comment); err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(me)
	if err != nil {
		return nil, err
	}
	var summary *domain.UserSummary
	if author != nil {
		summary = author.ToSummary()
		if err := s.notifications.Notify(post.AuthorID, domain.NotificationComment,
			fmt.Sprintf("%s commented on your post", author.Username), me, &postID, &comment.ID); err != nil {
			return nil, err
		}
	}

	return &domain.CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Author:    summary,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}, nil
}

// Comments lists a post's comments chronologically
func (s *PostService) Comments(postID int64) ([]domain.CommentResponse, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, common.ErrPostNotFound
	}

	comments, err := s.posts.ListComments(postID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]int64, 0, len(comments))
	seen := map[int64]bool{}
	for i := range comments {
		if !seen[comments[i].AuthorID] {
			seen[comments[i].AuthorID] = true
			authorIDs = append(authorIDs, comments[i].AuthorID)
		}
	}
	authors, err := s.users.FindByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	summaries := make(map[int64]*domain.UserSummary, len(authors))
	for i := range authors {
		summaries[authors[i].ID] = authors[i].ToSummary()
	}

	out := make([]domain.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, domain.CommentResponse{
			ID:        comments[i].ID,
			PostID:    comments[i].PostID,
			AuthorID:  comments[i].AuthorID,
			Author:    summaries[comments[i].AuthorID],
			Content:   comments[i].Content,
			CreatedAt: comments[i].CreatedAt,
		})
	}
	return out, nil
}

func (s *PostService) toResponse(post *domain.Post, viewerID int64) (*domain.PostResponse, error) {
	likeCount, err := s.posts.LikeCount(post.ID)
	if err != nil {
		return nil, err
	}
	liked, err := s.posts.IsLikedBy(post.ID, viewerID)
	if err != nil {
		return nil, err
	}

	var author *domain.UserSummary
	if u, err := s.users.FindByID(post.AuthorID); err == nil && u != nil {
		author = u.ToSummary()
	}

	return &domain.PostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Author:    author,
		Content:   post.Content,
		Media:     post.Media,
		LikeCount: likeCount,
		Liked:     liked,
		CreatedAt: post.CreatedAt,
	}, nil
}
