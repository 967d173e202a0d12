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

// SocialHandler covers likes and favorites on venues.
type SocialHandler struct {
	Social *repository.SocialRepo
	Lieux  *repository.LieuRepo
}

func NewSocialHandler(s *repository.SocialRepo, l *repository.LieuRepo) *SocialHandler {
	return &SocialHandler{Social: s, Lieux: l}
}

func (h *SocialHandler) lieuExists(ctx context.Context, c echo.Context) (int64, bool) {
	id, err := parseID(c, "id")
	if err != nil {
		_ = fail(c, http.StatusBadRequest, errBadID.Error())
		return 0, false
	}
	if _, err := h.Lieux.GetTypeByID(ctx, id); err != nil {
		if err == repository.ErrLieuNotFound {
			_ = fail(c, http.StatusNotFound, "lieu introuvable")
		} else {
			_ = fail(c, http.StatusInternalServerError, "échec de la lecture du lieu")
		}
		return 0, false
	}
	return id, true
}

// Like marks the venue as liked by the authenticated user.
func (h *SocialHandler) Like(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	lieuID, okLieu := h.lieuExists(ctx, c)
	if !okLieu {
		return nil
	}
	id, err := h.Social.AddLike(ctx, currentUserID(c), lieuID)
	if err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "lieu déjà aimé")
		}
		c.Logger().Errorf("like: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de l'ajout du like")
	}
	return okMsg(c, http.StatusCreated, echo.Map{"id": serialize.FormatID(id)}, "lieu aimé")
}

// Unlike removes the like.
func (h *SocialHandler) Unlike(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	lieuID, okLieu := h.lieuExists(ctx, c)
	if !okLieu {
		return nil
	}
	if err := h.Social.RemoveLike(ctx, currentUserID(c), lieuID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "like introuvable")
		}
		c.Logger().Errorf("unlike: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression du like")
	}
	return okMsg(c, http.StatusOK, nil, "like retiré")
}

// Favorite bookmarks the venue for the authenticated user.
func (h *SocialHandler) Favorite(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	lieuID, okLieu := h.lieuExists(ctx, c)
	if !okLieu {
		return nil
	}
	id, err := h.Social.AddFavorite(ctx, currentUserID(c), lieuID)
	if err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "lieu déjà en favoris")
		}
		c.Logger().Errorf("favorite: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de l'ajout aux favoris")
	}
	return okMsg(c, http.StatusCreated, echo.Map{"id": serialize.FormatID(id)}, "lieu ajouté aux favoris")
}

// Unfavorite drops the bookmark.
func (h *SocialHandler) Unfavorite(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	lieuID, okLieu := h.lieuExists(ctx, c)
	if !okLieu {
		return nil
	}
	if err := h.Social.RemoveFavorite(ctx, currentUserID(c), lieuID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "favori introuvable")
		}
		c.Logger().Errorf("unfavorite: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression du favori")
	}
	return okMsg(c, http.StatusOK, nil, "lieu retiré des favoris")
}

// ListFavorites resolves the user's bookmarks to full venue views.
func (h *SocialHandler) ListFavorites(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	ids, err := h.Social.FavoriteLieuIDs(ctx, currentUserID(c))
	if err != nil {
		c.Logger().Errorf("list favorites: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des favoris")
	}
	return ok(c, http.StatusOK, h.resolveViews(ctx, ids))
}

// ListLikes resolves the venues the user has liked to full views.
func (h *SocialHandler) ListLikes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	ids, err := h.Social.LikedLieuIDs(ctx, currentUserID(c))
	if err != nil {
		c.Logger().Errorf("list likes: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des likes")
	}
	return ok(c, http.StatusOK, h.resolveViews(ctx, ids))
}

func (h *SocialHandler) resolveViews(ctx context.Context, ids []int64) []model.LieuView {
	views := make([]model.LieuView, 0, len(ids))
	for _, id := range ids {
		view, err := h.Lieux.GetByID(ctx, id)
		if err != nil {
			// A relation pointing at a deleted venue is skipped, not fatal.
			continue
		}
		views = append(views, view)
	}
	return views
}
