package model

import "time"

// Like marks that a user liked a venue. The (user_id, lieu_id) pair is
// unique; duplicates are detected with an existence check before insert
// so the API can answer 409 instead of surfacing a constraint violation.
type Like struct {
	ID        int64
	UserID    int64
	LieuID    int64
	CreatedAt time.Time
}

// Favorite bookmarks a venue for a user. Same uniqueness rule as Like.
type Favorite struct {
	ID        int64
	UserID    int64
	LieuID    int64
	CreatedAt time.Time
}

// Notification is a message delivered to a single user, created either
// directly through the API or by the reservation event consumer.
type Notification struct {
	ID               int64
	Message          string
	TypeNotification string
	IsRead           bool
	UserID           int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
