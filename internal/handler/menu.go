package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
	"github.com/Kiraws/ExploreTogoBack/internal/repository"
	"github.com/Kiraws/ExploreTogoBack/internal/serialize"
)

// MenuHandler covers the menu hierarchy of leisure venues: menus, dish
// categories and dishes.
type MenuHandler struct {
	Menus *repository.MenuRepo
	Lieux *repository.LieuRepo
}

func NewMenuHandler(m *repository.MenuRepo, l *repository.LieuRepo) *MenuHandler {
	return &MenuHandler{Menus: m, Lieux: l}
}

type menuReq struct {
	NomMenu     string  `json:"nomMenu"`
	Description *string `json:"description"`
}
type categorieReq struct {
	NomCategorie string `json:"nomCategorie"`
}
type platReq struct {
	NomPlat    string   `json:"nomPlat"`
	Prix       *float64 `json:"prix"`
	Disponible *bool    `json:"disponible"`
}

func platView(p model.Plat) map[string]any {
	return map[string]any{
		"id":          serialize.FormatID(p.ID),
		"nomPlat":     p.NomPlat,
		"prix":        p.Prix,
		"disponible":  p.Disponible,
		"categorieId": p.CategorieID,
	}
}

// menuTree assembles a menu with its categories and dishes.
func (h *MenuHandler) menuTree(ctx context.Context, m model.Menu) (map[string]any, error) {
	cats, err := h.Menus.ListCategories(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	catViews := make([]map[string]any, 0, len(cats))
	for _, cat := range cats {
		plats, err := h.Menus.ListPlats(ctx, cat.ID)
		if err != nil {
			return nil, err
		}
		platViews := make([]map[string]any, 0, len(plats))
		for _, p := range plats {
			platViews = append(platViews, platView(p))
		}
		catViews = append(catViews, map[string]any{
			"id":           cat.ID,
			"nomCategorie": cat.NomCategorie,
			"menuId":       cat.MenuID,
			"plats":        platViews,
		})
	}
	view := map[string]any{
		"id":         m.ID,
		"nomMenu":    m.NomMenu,
		"lieuId":     serialize.FormatID(m.LieuID),
		"categories": catViews,
	}
	if m.Description != nil {
		view["description"] = *m.Description
	}
	return view, nil
}

// requireLoisirs checks that the venue exists and is a leisure venue,
// the only type carrying menus.
func (h *MenuHandler) requireLoisirs(ctx context.Context, c echo.Context, lieuID int64) bool {
	okLieu, err := h.Lieux.IsLoisirs(ctx, lieuID)
	if err != nil {
		_ = fail(c, http.StatusInternalServerError, "échec de la lecture du lieu")
		return false
	}
	if !okLieu {
		_ = fail(c, http.StatusNotFound, "lieu de loisirs introuvable")
		return false
	}
	return true
}

// CreateMenu adds a menu to a leisure venue.
func (h *MenuHandler) CreateMenu(c echo.Context) error {
	lieuID, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	var req menuReq
	if err := c.Bind(&req); err != nil || req.NomMenu == "" {
		return fail(c, http.StatusBadRequest, "nom du menu requis")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if !h.requireLoisirs(ctx, c, lieuID) {
		return nil
	}
	m, err := h.Menus.CreateMenu(ctx, lieuID, req.NomMenu, req.Description)
	if err != nil {
		c.Logger().Errorf("menu create: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création du menu")
	}
	view, err := h.menuTree(ctx, m)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de la lecture du menu")
	}
	return okMsg(c, http.StatusCreated, view, "menu créé avec succès")
}

// ListMenus returns the full menu tree of a leisure venue.
func (h *MenuHandler) ListMenus(c echo.Context) error {
	lieuID, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if !h.requireLoisirs(ctx, c, lieuID) {
		return nil
	}
	menus, err := h.Menus.ListMenusByLieu(ctx, lieuID)
	if err != nil {
		c.Logger().Errorf("menu list: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des menus")
	}
	views := make([]map[string]any, 0, len(menus))
	for _, m := range menus {
		view, err := h.menuTree(ctx, m)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "échec de la lecture des menus")
		}
		views = append(views, view)
	}
	return ok(c, http.StatusOK, views)
}

// UpdateMenu renames a menu.
func (h *MenuHandler) UpdateMenu(c echo.Context) error {
	menuID := c.Param("menuId")
	var req menuReq
	if err := c.Bind(&req); err != nil || req.NomMenu == "" {
		return fail(c, http.StatusBadRequest, "nom du menu requis")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Menus.UpdateMenu(ctx, menuID, req.NomMenu, req.Description); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "menu introuvable")
		}
		c.Logger().Errorf("menu update %s: %v", menuID, err)
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour du menu")
	}
	m, err := h.Menus.GetMenu(ctx, menuID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de la lecture du menu")
	}
	view, err := h.menuTree(ctx, m)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de la lecture du menu")
	}
	return okMsg(c, http.StatusOK, view, "menu mis à jour")
}

// DeleteMenu removes a menu and everything under it.
func (h *MenuHandler) DeleteMenu(c echo.Context) error {
	menuID := c.Param("menuId")
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Menus.DeleteMenu(ctx, menuID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "menu introuvable")
		}
		c.Logger().Errorf("menu delete %s: %v", menuID, err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression du menu")
	}
	return okMsg(c, http.StatusOK, nil, "menu supprimé")
}

// CreateCategorie adds a dish category to a menu.
func (h *MenuHandler) CreateCategorie(c echo.Context) error {
	menuID := c.Param("menuId")
	var req categorieReq
	if err := c.Bind(&req); err != nil || req.NomCategorie == "" {
		return fail(c, http.StatusBadRequest, "nom de la catégorie requis")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if _, err := h.Menus.GetMenu(ctx, menuID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "menu introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture du menu")
	}
	cat, err := h.Menus.CreateCategorie(ctx, menuID, req.NomCategorie)
	if err != nil {
		c.Logger().Errorf("categorie create: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création de la catégorie")
	}
	return okMsg(c, http.StatusCreated, echo.Map{
		"id":           cat.ID,
		"nomCategorie": cat.NomCategorie,
		"menuId":       cat.MenuID,
	}, "catégorie créée avec succès")
}

// DeleteCategorie removes a category and its dishes.
func (h *MenuHandler) DeleteCategorie(c echo.Context) error {
	catID := c.Param("categorieId")
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Menus.DeleteCategorie(ctx, catID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "catégorie introuvable")
		}
		c.Logger().Errorf("categorie delete %s: %v", catID, err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression de la catégorie")
	}
	return okMsg(c, http.StatusOK, nil, "catégorie supprimée")
}

// ListPlatsByCategorie returns every dish of one category.
func (h *MenuHandler) ListPlatsByCategorie(c echo.Context) error {
	catID := c.Param("categorieId")
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if _, err := h.Menus.GetCategorie(ctx, catID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "catégorie introuvable")
		}
		c.Logger().Errorf("categorie get %s: %v", catID, err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture de la catégorie")
	}
	plats, err := h.Menus.ListPlats(ctx, catID)
	if err != nil {
		c.Logger().Errorf("plats list %s: %v", catID, err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des plats")
	}
	views := make([]map[string]any, 0, len(plats))
	for _, p := range plats {
		views = append(views, platView(p))
	}
	return ok(c, http.StatusOK, views)
}

// CreatePlat adds a dish to a category.
func (h *MenuHandler) CreatePlat(c echo.Context) error {
	catID := c.Param("categorieId")
	var req platReq
	if err := c.Bind(&req); err != nil || req.NomPlat == "" || req.Prix == nil {
		return fail(c, http.StatusBadRequest, "nom et prix du plat requis")
	}
	if *req.Prix <= 0 {
		return fail(c, http.StatusBadRequest, "le prix doit être strictement positif")
	}
	disponible := true
	if req.Disponible != nil {
		disponible = *req.Disponible
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if _, err := h.Menus.GetCategorie(ctx, catID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "catégorie introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture de la catégorie")
	}
	p, err := h.Menus.CreatePlat(ctx, catID, req.NomPlat, *req.Prix, disponible)
	if err != nil {
		c.Logger().Errorf("plat create: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création du plat")
	}
	return okMsg(c, http.StatusCreated, platView(p), "plat créé avec succès")
}

// UpdatePlat replaces a dish's fields, falling back to the stored
// values for fields the request omits.
func (h *MenuHandler) UpdatePlat(c echo.Context) error {
	id, err := parseID(c, "platId")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	var req platReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	existing, err := h.Menus.GetPlat(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "plat introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture du plat")
	}
	nom := existing.NomPlat
	if req.NomPlat != "" {
		nom = req.NomPlat
	}
	prix := existing.Prix
	if req.Prix != nil {
		if *req.Prix <= 0 {
			return fail(c, http.StatusBadRequest, "le prix doit être strictement positif")
		}
		prix = *req.Prix
	}
	disponible := existing.Disponible
	if req.Disponible != nil {
		disponible = *req.Disponible
	}

	if err := h.Menus.UpdatePlat(ctx, id, nom, prix, disponible); err != nil {
		c.Logger().Errorf("plat update %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour du plat")
	}
	p, err := h.Menus.GetPlat(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de la lecture du plat")
	}
	return okMsg(c, http.StatusOK, platView(p), "plat mis à jour")
}

// DeletePlat removes one dish.
func (h *MenuHandler) DeletePlat(c echo.Context) error {
	id, err := parseID(c, "platId")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Menus.DeletePlat(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "plat introuvable")
		}
		c.Logger().Errorf("plat delete %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression du plat")
	}
	return okMsg(c, http.StatusOK, nil, "plat supprimé")
}
