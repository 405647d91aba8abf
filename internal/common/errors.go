package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrAccountDisabled    = errors.New("account disabled")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Conversation errors
	ErrSelfConversation = errors.New("cannot start a conversation with yourself")
	ErrRoomNotFound     = errors.New("room not found")
	ErrNotRoomMember    = errors.New("not a member of this room")
	ErrNotGroupRoom     = errors.New("not a group room")
	ErrNotGroupOwner    = errors.New("not the group owner")

	// Message errors
	ErrMessageNotFound     = errors.New("message not found")
	ErrNotMessageSender    = errors.New("not the message sender")
	ErrRecallWindowExpired = errors.New("recall window expired")

	// Social errors
	ErrSelfFollow      = errors.New("cannot follow yourself")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)
