package domain

import "time"

// Follow is a directed edge follower -> following, unique per ordered pair.
type Follow struct {
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	FollowerID  int64     `gorm:"column:follower_id;uniqueIndex:idx_follower_following" json:"follower_id"`
	FollowingID int64     `gorm:"column:following_id;uniqueIndex:idx_follower_following;index" json:"following_id"`
}

func (Follow) TableName() string {
	return "follows"
}

// FollowUserItem is one entry of a follower/following list.
// IsFriend means the edge exists in both directions.
type FollowUserItem struct {
	User     UserSummary `json:"user"`
	IsFriend bool        `json:"is_friend"`
}
