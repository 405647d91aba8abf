package service

import (
	"testing"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupConversationService(t *testing.T) (*ConversationService, *gorm.DB, *recordingPublisher) {
	t.Helper()
	db := setupTestDB(t)
	users, rooms, messages := newTestRepos(db)
	pub := &recordingPublisher{}
	return NewConversationService(rooms, messages, users, pub), db, pub
}

func TestStartConversation_CreatesOnce(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	room1, err := svc.Start(alice.ID, bob.ID)
	assert.NoError(t, err)
	assert.NotNil(t, room1)
	assert.False(t, room1.IsGroup)

	// Starting again, from either side, returns the same room
	room2, err := svc.Start(alice.ID, bob.ID)
	assert.NoError(t, err)
	assert.Equal(t, room1.ID, room2.ID)

	room3, err := svc.Start(bob.ID, alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, room1.ID, room3.ID)

	var count int64
	db.Model(&domain.Room{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStartConversation_LostRaceReturnsWinner(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	users, rooms, messages := newTestRepos(db)
	svc := NewConversationService(rooms, messages, users, &recordingPublisher{})

	// Another instance already created the pair room
	pairKey := domain.PairKeyFor(alice.ID, bob.ID)
	winner := &domain.Room{IsGroup: false, PairKey: &pairKey}
	assert.NoError(t, rooms.CreateWithMembers(winner, []int64{alice.ID, bob.ID}))

	// Inserting the same pair again surfaces the translated duplicate error,
	// the branch Start resolves by refetching the winner
	loser := &domain.Room{IsGroup: false, PairKey: &pairKey}
	err := rooms.CreateWithMembers(loser, []int64{alice.ID, bob.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	room, err := svc.Start(alice.ID, bob.ID)
	assert.NoError(t, err)
	assert.Equal(t, winner.ID, room.ID)

	var count int64
	db.Model(&domain.Room{}).Where("pair_key = ?", pairKey).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStartConversation_WithSelf(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Start(alice.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrSelfConversation)
}

func TestStartConversation_TargetMissing(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Start(alice.ID, 9999)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestListConversations_OrderAndUnread(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	roomBob, err := svc.Start(alice.ID, bob.ID)
	assert.NoError(t, err)
	roomCarol, err := svc.Start(alice.ID, carol.ID)
	assert.NoError(t, err)

	// Bob's room got a message first, Carol's later
	db.Create(&domain.Message{RoomID: roomBob.ID, SenderID: bob.ID, Content: "hi from bob"})
	db.Create(&domain.Message{RoomID: roomCarol.ID, SenderID: carol.ID, Content: "hi from carol"})
	db.Create(&domain.Message{RoomID: roomCarol.ID, SenderID: carol.ID, Content: "again"})

	list, err := svc.List(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	assert.Equal(t, roomCarol.ID, list[0].ID)
	assert.Equal(t, int64(2), list[0].UnreadCount)
	assert.NotNil(t, list[0].Other)
	assert.Equal(t, carol.ID, list[0].Other.ID)
	assert.Equal(t, "again", list[0].LastMessage.Content)

	assert.Equal(t, roomBob.ID, list[1].ID)
	assert.Equal(t, int64(1), list[1].UnreadCount)
}

func TestListConversations_EmptyRoomSortsLast(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	roomBob, _ := svc.Start(alice.ID, bob.ID)
	_, err := svc.Start(alice.ID, carol.ID)
	assert.NoError(t, err)

	db.Create(&domain.Message{RoomID: roomBob.ID, SenderID: bob.ID, Content: "hello"})

	list, err := svc.List(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, roomBob.ID, list[0].ID)
	assert.Nil(t, list[1].LastMessage)
}

func TestDeleteConversation_CascadesAndNotifies(t *testing.T) {
	svc, db, pub := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	room, _ := svc.Start(alice.ID, bob.ID)
	db.Create(&domain.Message{RoomID: room.ID, SenderID: alice.ID, Content: "bye"})

	err := svc.Delete(alice.ID, room.ID)
	assert.NoError(t, err)

	var rooms, messages, members int64
	db.Model(&domain.Room{}).Count(&rooms)
	db.Model(&domain.Message{}).Count(&messages)
	db.Model(&domain.RoomMember{}).Count(&members)
	assert.Zero(t, rooms)
	assert.Zero(t, messages)
	assert.Zero(t, members)

	assert.Len(t, pub.userEvents(alice.ID, events.ConversationDeleted), 1)
	assert.Len(t, pub.userEvents(bob.ID, events.ConversationDeleted), 1)
}

func TestDeleteConversation_NonMember(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	eve := createTestUser(t, db, "eve")

	room, _ := svc.Start(alice.ID, bob.ID)

	err := svc.Delete(eve.ID, room.ID)
	assert.ErrorIs(t, err, common.ErrNotRoomMember)
}

func TestCreateGroup_IncludesCreator(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	room, err := svc.CreateGroup(alice.ID, &domain.CreateGroupRequest{
		Name:      "team",
		MemberIDs: []int64{bob.ID},
	})
	assert.NoError(t, err)
	assert.True(t, room.IsGroup)
	assert.Equal(t, alice.ID, *room.CreatedBy)

	var members int64
	db.Model(&domain.RoomMember{}).Where("room_id = ?", room.ID).Count(&members)
	assert.Equal(t, int64(2), members)
}

func TestAddMember_IdempotentAndGroupOnly(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	group, _ := svc.CreateGroup(alice.ID, &domain.CreateGroupRequest{
		Name:      "team",
		MemberIDs: []int64{bob.ID},
	})

	assert.NoError(t, svc.AddMember(alice.ID, group.ID, carol.ID))
	// Adding the same member again is a no-op, not an error
	assert.NoError(t, svc.AddMember(alice.ID, group.ID, carol.ID))

	var members int64
	db.Model(&domain.RoomMember{}).Where("room_id = ?", group.ID).Count(&members)
	assert.Equal(t, int64(3), members)

	direct, _ := svc.Start(alice.ID, bob.ID)
	err := svc.AddMember(alice.ID, direct.ID, carol.ID)
	assert.ErrorIs(t, err, common.ErrNotGroupRoom)
}

func TestRemoveMember_OwnerOnly(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	group, _ := svc.CreateGroup(alice.ID, &domain.CreateGroupRequest{
		Name:      "team",
		MemberIDs: []int64{bob.ID, carol.ID},
	})

	err := svc.RemoveMember(bob.ID, group.ID, carol.ID)
	assert.ErrorIs(t, err, common.ErrNotGroupOwner)

	assert.NoError(t, svc.RemoveMember(alice.ID, group.ID, carol.ID))

	var members int64
	db.Model(&domain.RoomMember{}).Where("room_id = ?", group.ID).Count(&members)
	assert.Equal(t, int64(2), members)
}

func TestLeaveGroup(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, _ := svc.CreateGroup(alice.ID, &domain.CreateGroupRequest{
		Name:      "team",
		MemberIDs: []int64{bob.ID},
	})

	assert.NoError(t, svc.Leave(bob.ID, group.ID))
	assert.ErrorIs(t, svc.Leave(bob.ID, group.ID), common.ErrNotRoomMember)
}

func TestUpdateGroup_OwnerOnly(t *testing.T) {
	svc, db, _ := setupConversationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, _ := svc.CreateGroup(alice.ID, &domain.CreateGroupRequest{
		Name:      "team",
		MemberIDs: []int64{bob.ID},
	})

	name := "renamed"
	err := svc.UpdateGroup(bob.ID, group.ID, &domain.UpdateGroupRequest{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotGroupOwner)

	assert.NoError(t, svc.UpdateGroup(alice.ID, group.ID, &domain.UpdateGroupRequest{Name: &name}))

	var updated domain.Room
	db.First(&updated, group.ID)
	assert.Equal(t, "renamed", updated.Name)
}
