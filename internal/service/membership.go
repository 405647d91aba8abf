package service

import (
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/repository"
)

// requireMembership is the single membership guard used by every conversation
// and message operation. Non-members get ErrNotRoomMember, never a silent
// no-op that could leak data across rooms.
func requireMembership(rooms *repository.RoomRepository, roomID, userID int64) (*domain.Room, error) {
	room, err := rooms.FindByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, common.ErrRoomNotFound
	}

	isMember, err := rooms.IsMember(roomID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.ErrNotRoomMember
	}
	return room, nil
}
