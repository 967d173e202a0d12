package model

import "time"

// User represents an application account as stored in the `users`
// table. Each field corresponds to a column. The json tags are omitted
// here because these structs are used by the repository layer; handlers
// define separate response types with appropriate JSON tags and never
// expose the password hash.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – family name.
//  Firstname    – given name.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Genre        – gender tag (masculin/feminin), nullable.
//  Role         – admin, utilisateur or gerant.
//  Active       – soft-delete flag; inactive accounts cannot log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           int64
	Name         string
	Firstname    string
	Email        string
	PasswordHash string
	Genre        *string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session models an entry in the `sessions` table. Each session belongs
// to a user and carries the SHA-256 hash of a refresh token together
// with expiry and revocation metadata. The plain token is never stored,
// which keeps stolen database rows useless for refreshing. Revoking all
// sessions of a user implements forced logout across devices.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  TokenHash – SHA-256 hex digest of the refresh token.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the session was revoked (null while active).
//  CreatedAt – timestamp of creation.
type Session struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
