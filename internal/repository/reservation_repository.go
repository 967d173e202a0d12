package repository

import (
	"context"
	"database/sql"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
)

type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = `id, status, date_reservation, heure_reservation, nb_place,
	user_contact, user_id, lieu_id, created_at, updated_at`

func scanReservation(s rowScanner) (model.Reservation, error) {
	var res model.Reservation
	err := s.Scan(&res.ID, &res.Status, &res.DateReservation, &res.HeureReservation,
		&res.NbPlace, &res.UserContact, &res.UserID, &res.LieuID,
		&res.CreatedAt, &res.UpdatedAt)
	return res, err
}

// Create inserts a pending reservation and returns the stored row.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) (model.Reservation, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO reservations (status, date_reservation, heure_reservation, nb_place, user_contact, user_id, lieu_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		model.ReservationPending, res.DateReservation, res.HeureReservation,
		res.NbPlace, res.UserContact, res.UserID, res.LieuID).Scan(&id)
	if err != nil {
		return model.Reservation{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches one reservation.
func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (model.Reservation, error) {
	return scanReservation(r.DB.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1 LIMIT 1`, id))
}

func (r *ReservationRepo) list(ctx context.Context, where string, arg any) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	return r.list(ctx, "user_id = $1", userID)
}

// ListByLieu returns every reservation made against one venue.
func (r *ReservationRepo) ListByLieu(ctx context.Context, lieuID int64) ([]model.Reservation, error) {
	return r.list(ctx, "lieu_id = $1", lieuID)
}

// UpdateStatus moves a reservation between en_attente, confirmee and
// annulee. The handler decides who may do this; the repo just writes.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id int64, status string) (model.Reservation, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Reservation{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

// Delete removes a reservation outright.
func (r *ReservationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
