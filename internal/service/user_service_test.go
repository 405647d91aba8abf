package service

import (
	"testing"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (*UserService, *gorm.DB, *recordingPublisher) {
	t.Helper()
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	pushRepo := repository.NewPushRepository(db)
	notifications := NewNotificationService(
		repository.NewNotificationRepository(db),
		pushRepo,
		repository.NewUserRepository(db),
		pub,
		NewPushDispatcher(pushRepo, nil),
	)
	svc := NewUserService(
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
		notifications,
	)
	return svc, db, pub
}

func TestFollow_NotifiesOnce(t *testing.T) {
	svc, db, _ := setupUserService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	assert.NoError(t, svc.Follow(alice.ID, bob.ID))
	// Following again is a no-op and must not duplicate the notification
	assert.NoError(t, svc.Follow(alice.ID, bob.ID))

	var follows, notifications int64
	db.Model(&domain.Follow{}).Count(&follows)
	db.Model(&domain.Notification{}).Count(&notifications)
	assert.Equal(t, int64(1), follows)
	assert.Equal(t, int64(1), notifications)

	var n domain.Notification
	db.First(&n)
	assert.Equal(t, domain.NotificationFollow, n.Type)
	assert.Equal(t, bob.ID, n.UserID)
}

func TestFollow_SelfAndMissingTarget(t *testing.T) {
	svc, db, _ := setupUserService(t)
	alice := createTestUser(t, db, "alice")

	assert.ErrorIs(t, svc.Follow(alice.ID, alice.ID), common.ErrSelfFollow)
	assert.ErrorIs(t, svc.Follow(alice.ID, 9999), common.ErrUserNotFound)
}

func TestUnfollow_Idempotent(t *testing.T) {
	svc, db, _ := setupUserService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	svc.Follow(alice.ID, bob.ID)
	assert.NoError(t, svc.Unfollow(alice.ID, bob.ID))
	assert.NoError(t, svc.Unfollow(alice.ID, bob.ID))

	var follows int64
	db.Model(&domain.Follow{}).Count(&follows)
	assert.Zero(t, follows)
}

func TestFollowers_FriendFlag(t *testing.T) {
	svc, db, _ := setupUserService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	// bob and alice follow each other; carol only follows alice
	svc.Follow(bob.ID, alice.ID)
	svc.Follow(alice.ID, bob.ID)
	svc.Follow(carol.ID, alice.ID)

	followers, err := svc.Followers(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, followers, 2)

	byID := map[int64]domain.FollowUserItem{}
	for _, f := range followers {
		byID[f.User.ID] = f
	}
	assert.True(t, byID[bob.ID].IsFriend)
	assert.False(t, byID[carol.ID].IsFriend)

	following, err := svc.Following(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].User.ID)
}

func TestGetProfile_Counts(t *testing.T) {
	svc, db, _ := setupUserService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	svc.Follow(bob.ID, alice.ID)
	svc.Follow(carol.ID, alice.ID)
	svc.Follow(alice.ID, bob.ID)

	profile, err := svc.GetProfile(bob.ID, alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, profile.FollowerCount)
	assert.Equal(t, 1, profile.FollowingCount)
	assert.True(t, profile.IsFollowing)
	assert.True(t, profile.IsFriend)

	_, err = svc.GetProfile(bob.ID, 9999)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, db, _ := setupUserService(t)
	alice := createTestUser(t, db, "alice")

	name := "Alice B."
	bio := "hello there"
	updated, err := svc.UpdateProfile(alice.ID, &domain.UpdateProfileRequest{Name: &name, Bio: &bio})
	assert.NoError(t, err)
	assert.Equal(t, "Alice B.", updated.Name)
	assert.Equal(t, "hello there", updated.Bio)
}
