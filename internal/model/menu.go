package model

import "time"

// Menu belongs to a leisure-type venue. Menus, their categories and
// dishes form a strict three-level hierarchy scoped under type=loisirs.
type Menu struct {
	ID          string
	NomMenu     string
	Description *string
	LieuID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoriePlat groups dishes inside a menu.
type CategoriePlat struct {
	ID          string
	NomCategorie string
	Description *string
	MenuID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Plat is a dish: positive price, availability defaults to true.
type Plat struct {
	ID          int64
	NomPlat     string
	Description *string
	Prix        float64
	Disponible  bool
	CategorieID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
