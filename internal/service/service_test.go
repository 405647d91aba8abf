package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"github.com/nexlink/nexlink-backend/pkg/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Room{},
		&domain.RoomMember{},
		&domain.Message{},
		&domain.MessageDeletion{},
		&domain.Notification{},
		&domain.PushSubscription{},
		&domain.Follow{},
		&domain.Post{},
		&domain.Comment{},
		&domain.PostLike{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Name:     username,
		Role:     domain.RoleUser,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// recordedEvent is one captured fan-out emission
type recordedEvent struct {
	Event  *events.Event
	UserID int64
	RoomID int64
	ToRoom bool
}

// recordingPublisher captures events so tests can assert on fan-out
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) ToUser(userID int64, event *events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, UserID: userID})
}

func (p *recordingPublisher) ToRoom(roomID int64, event *events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, RoomID: roomID, ToRoom: true})
}

func (p *recordingPublisher) userEvents(userID int64, eventType string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if !e.ToRoom && e.UserID == userID && e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (p *recordingPublisher) roomEvents(roomID int64, eventType string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.ToRoom && e.RoomID == roomID && e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestRepos(db *gorm.DB) (*repository.UserRepository, *repository.RoomRepository, *repository.MessageRepository) {
	return repository.NewUserRepository(db), repository.NewRoomRepository(db), repository.NewMessageRepository(db)
}

func testJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 60, 10080)
}
