package model

import "time"

// Reservation statuses accepted by the reservations table.
const (
	ReservationPending   = "en_attente"
	ReservationConfirmed = "confirmee"
	ReservationCancelled = "annulee"
)

// Reservation records a user's booking at a venue. A reservation
// belongs to exactly one user and one venue; only the owning user may
// update or cancel it. The venue reference is a plain foreign key — a
// reservation does not follow the venue's satellite lifecycle.
//
// Fields:
//  ID               – primary key identifier.
//  Status           – en_attente, confirmee or annulee.
//  DateReservation  – reservation date (YYYY-MM-DD).
//  HeureReservation – reservation time (HH:MM).
//  NbPlace          – party size, always > 0.
//  UserContact      – optional contact string.
//  UserID           – user who made the reservation.
//  LieuID           – venue being reserved.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Reservation struct {
	ID               int64
	Status           string
	DateReservation  string
	HeureReservation string
	NbPlace          int
	UserContact      *string
	UserID           int64
	LieuID           int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
