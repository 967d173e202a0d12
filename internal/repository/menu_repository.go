package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
)

// MenuRepo manages the menu hierarchy of leisure venues: menus own
// dish categories, categories own dishes. Menu and category IDs are
// UUIDs generated here; dishes keep serial integer IDs.
type MenuRepo struct{ DB *sql.DB }

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{DB: db} }

// CreateMenu inserts a menu for a venue and returns it.
func (r *MenuRepo) CreateMenu(ctx context.Context, lieuID int64, nom string, description *string) (model.Menu, error) {
	m := model.Menu{ID: uuid.NewString(), NomMenu: nom, Description: description, LieuID: lieuID}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO menus (id, nom_menu, description, lieu_id) VALUES ($1, $2, $3, $4)`,
		m.ID, m.NomMenu, m.Description, m.LieuID)
	if err != nil {
		return model.Menu{}, err
	}
	return m, nil
}

// GetMenu fetches one menu row; sql.ErrNoRows when absent.
func (r *MenuRepo) GetMenu(ctx context.Context, id string) (model.Menu, error) {
	var m model.Menu
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, nom_menu, description, lieu_id FROM menus WHERE id = $1 LIMIT 1`, id).
		Scan(&m.ID, &m.NomMenu, &m.Description, &m.LieuID)
	return m, err
}

// ListMenusByLieu returns the venue's menus in creation order.
func (r *MenuRepo) ListMenusByLieu(ctx context.Context, lieuID int64) ([]model.Menu, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, nom_menu, description, lieu_id FROM menus WHERE lieu_id = $1 ORDER BY nom_menu`,
		lieuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Menu, 0)
	for rows.Next() {
		var m model.Menu
		if err := rows.Scan(&m.ID, &m.NomMenu, &m.Description, &m.LieuID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateMenu renames a menu and replaces its description.
func (r *MenuRepo) UpdateMenu(ctx context.Context, id string, nom string, description *string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE menus SET nom_menu = $1, description = $2 WHERE id = $3`, nom, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteMenu removes a menu; categories and dishes cascade.
func (r *MenuRepo) DeleteMenu(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateCategorie adds a dish category to a menu.
func (r *MenuRepo) CreateCategorie(ctx context.Context, menuID, nom string) (model.CategoriePlat, error) {
	c := model.CategoriePlat{ID: uuid.NewString(), NomCategorie: nom, MenuID: menuID}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO categories_plats (id, nom_categorie, menu_id) VALUES ($1, $2, $3)`,
		c.ID, c.NomCategorie, c.MenuID)
	if err != nil {
		return model.CategoriePlat{}, err
	}
	return c, nil
}

// GetCategorie fetches one category row.
func (r *MenuRepo) GetCategorie(ctx context.Context, id string) (model.CategoriePlat, error) {
	var c model.CategoriePlat
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, nom_categorie, menu_id FROM categories_plats WHERE id = $1 LIMIT 1`, id).
		Scan(&c.ID, &c.NomCategorie, &c.MenuID)
	return c, err
}

// ListCategories returns a menu's categories alphabetically.
func (r *MenuRepo) ListCategories(ctx context.Context, menuID string) ([]model.CategoriePlat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, nom_categorie, menu_id FROM categories_plats WHERE menu_id = $1 ORDER BY nom_categorie`,
		menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CategoriePlat, 0)
	for rows.Next() {
		var c model.CategoriePlat
		if err := rows.Scan(&c.ID, &c.NomCategorie, &c.MenuID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCategorie removes a category; its dishes cascade.
func (r *MenuRepo) DeleteCategorie(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories_plats WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreatePlat adds a dish to a category and returns the stored row.
func (r *MenuRepo) CreatePlat(ctx context.Context, categorieID, nom string, prix float64, disponible bool) (model.Plat, error) {
	p := model.Plat{NomPlat: nom, Prix: prix, Disponible: disponible, CategorieID: categorieID}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO plats (nom_plat, prix, disponible, categorie_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.NomPlat, p.Prix, p.Disponible, p.CategorieID).Scan(&p.ID)
	if err != nil {
		return model.Plat{}, err
	}
	return p, nil
}

// GetPlat fetches one dish row.
func (r *MenuRepo) GetPlat(ctx context.Context, id int64) (model.Plat, error) {
	var p model.Plat
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, nom_plat, prix, disponible, categorie_id FROM plats WHERE id = $1 LIMIT 1`, id).
		Scan(&p.ID, &p.NomPlat, &p.Prix, &p.Disponible, &p.CategorieID)
	return p, err
}

// ListPlats returns a category's dishes alphabetically.
func (r *MenuRepo) ListPlats(ctx context.Context, categorieID string) ([]model.Plat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, nom_plat, prix, disponible, categorie_id FROM plats WHERE categorie_id = $1 ORDER BY nom_plat`,
		categorieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Plat, 0)
	for rows.Next() {
		var p model.Plat
		if err := rows.Scan(&p.ID, &p.NomPlat, &p.Prix, &p.Disponible, &p.CategorieID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePlat replaces a dish's name, price and availability.
func (r *MenuRepo) UpdatePlat(ctx context.Context, id int64, nom string, prix float64, disponible bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE plats SET nom_plat = $1, prix = $2, disponible = $3 WHERE id = $4`,
		nom, prix, disponible, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePlat removes one dish.
func (r *MenuRepo) DeletePlat(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM plats WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MenuLieuID resolves the owning venue of a menu, walking up from the
// menu row. Used for ownership checks before mutations.
func (r *MenuRepo) MenuLieuID(ctx context.Context, menuID string) (int64, error) {
	var lieuID int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT lieu_id FROM menus WHERE id = $1`, menuID).Scan(&lieuID)
	return lieuID, err
}
