// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into
// notifications.
package queue

// ReservationEvent is published when a reservation is created or moves
// to a new status. It carries enough to build the user notification
// without querying the primary database.
type ReservationEvent struct {
	ReservationID    int64  `json:"reservation_id"`
	UserID           int64  `json:"user_id"`
	LieuID           int64  `json:"lieu_id"`
	LieuNom          string `json:"lieu_nom"`
	Status           string `json:"status"`
	DateReservation  string `json:"date_reservation"`
	HeureReservation string `json:"heure_reservation"`
	NbPlace          int    `json:"nb_place"`
	OccurredAt       string `json:"occurred_at"`
}
