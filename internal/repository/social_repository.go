package repository

import (
	"context"
	"database/sql"
)

// SocialRepo covers likes and favorites. The two tables are identical
// (user_id, lieu_id) pairs with a uniqueness constraint; the table name
// is always one of two fixed literals.
type SocialRepo struct{ DB *sql.DB }

func NewSocialRepo(db *sql.DB) *SocialRepo { return &SocialRepo{DB: db} }

func (r *SocialRepo) add(ctx context.Context, table string, userID, lieuID int64) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO "+table+" (user_id, lieu_id) VALUES ($1, $2) RETURNING id",
		userID, lieuID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	return id, nil
}

func (r *SocialRepo) remove(ctx context.Context, table string, userID, lieuID int64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE user_id = $1 AND lieu_id = $2", userID, lieuID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SocialRepo) listLieuxFor(ctx context.Context, table string, userID int64) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT lieu_id FROM "+table+" WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddLike records that a user likes a venue. ErrConflict on a repeat.
func (r *SocialRepo) AddLike(ctx context.Context, userID, lieuID int64) (int64, error) {
	return r.add(ctx, "likes", userID, lieuID)
}

// RemoveLike deletes the like; sql.ErrNoRows if it never existed.
func (r *SocialRepo) RemoveLike(ctx context.Context, userID, lieuID int64) error {
	return r.remove(ctx, "likes", userID, lieuID)
}

// AddFavorite bookmarks a venue for a user. ErrConflict on a repeat.
func (r *SocialRepo) AddFavorite(ctx context.Context, userID, lieuID int64) (int64, error) {
	return r.add(ctx, "favorites", userID, lieuID)
}

// RemoveFavorite drops the bookmark; sql.ErrNoRows if absent.
func (r *SocialRepo) RemoveFavorite(ctx context.Context, userID, lieuID int64) error {
	return r.remove(ctx, "favorites", userID, lieuID)
}

// FavoriteLieuIDs lists the venue IDs a user has bookmarked, newest
// first. The handler resolves them to full views.
func (r *SocialRepo) FavoriteLieuIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.listLieuxFor(ctx, "favorites", userID)
}

// LikedLieuIDs lists the venue IDs a user has liked, newest first.
func (r *SocialRepo) LikedLieuIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.listLieuxFor(ctx, "likes", userID)
}
