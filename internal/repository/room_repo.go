package repository

import (
	"errors"

	"github.com/nexlink/nexlink-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomRepository handles room and membership data operations
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// FindByID returns a room by ID, nil if not found
func (r *RoomRepository) FindByID(id int64) (*domain.Room, error) {
	var room domain.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// FindByPairKey returns the 1:1 room for an unordered member pair, nil if none
func (r *RoomRepository) FindByPairKey(pairKey string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.Where("pair_key = ?", pairKey).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// CreateWithMembers inserts a room and its membership rows in one transaction.
// Returns gorm.ErrDuplicatedKey when the room's pair_key already exists.
func (r *RoomRepository) CreateWithMembers(room *domain.Room, memberIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		members := make([]domain.RoomMember, 0, len(memberIDs))
		for _, uid := range memberIDs {
			members = append(members, domain.RoomMember{RoomID: room.ID, UserID: uid})
		}
		return tx.Create(&members).Error
	})
}

// IsMember reports whether the user belongs to the room
func (r *RoomRepository) IsMember(roomID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberIDs returns the user IDs of all room members
func (r *RoomRepository) MemberIDs(roomID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&domain.RoomMember{}).
		Where("room_id = ?", roomID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// RoomIDsOf returns the IDs of every room the user is a member of
func (r *RoomRepository) RoomIDsOf(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&domain.RoomMember{}).
		Where("user_id = ?", userID).
		Pluck("room_id", &ids).Error
	return ids, err
}

// FindByIDs returns rooms for a set of IDs
func (r *RoomRepository) FindByIDs(ids []int64) ([]domain.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rooms []domain.Room
	err := r.db.Where("id IN ?", ids).Find(&rooms).Error
	return rooms, err
}

// AddMember inserts a membership row; adding an existing member is a no-op
func (r *RoomRepository) AddMember(roomID, userID int64) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.RoomMember{RoomID: roomID, UserID: userID}).Error
}

// RemoveMember deletes a membership row
func (r *RoomRepository) RemoveMember(roomID, userID int64) error {
	return r.db.Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&domain.RoomMember{}).Error
}

// UpdateFields updates selected columns of a room
func (r *RoomRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&domain.Room{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteCascade removes the room, its messages, per-viewer deletion marks and
// membership rows in one transaction
func (r *RoomRepository) DeleteCascade(roomID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var messageIDs []int64
		if err := tx.Model(&domain.Message{}).Where("room_id = ?", roomID).Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&domain.MessageDeletion{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Room{}, roomID).Error
	})
}
