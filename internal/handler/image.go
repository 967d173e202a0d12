package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/repository"
	"github.com/Kiraws/ExploreTogoBack/internal/storage"
)

// ImageHandler exposes the image list of a venue as a sub-resource, so
// clients can manage attachments without going through a full venue
// update.
type ImageHandler struct {
	Lieux  *repository.LieuRepo
	Images *storage.ImageStore
}

func NewImageHandler(l *repository.LieuRepo, s *storage.ImageStore) *ImageHandler {
	return &ImageHandler{Lieux: l, Images: s}
}

// List returns the venue's stored image URLs.
func (h *ImageHandler) List(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	urls, err := h.Lieux.GetImages(ctx, id)
	if err != nil {
		if err == repository.ErrLieuNotFound {
			return fail(c, http.StatusNotFound, "lieu introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture des images")
	}
	return ok(c, http.StatusOK, urls)
}

// Add appends uploaded files to the venue's image list.
func (h *ImageHandler) Add(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	if h.Images == nil {
		return fail(c, http.StatusServiceUnavailable, "le téléversement d'images est désactivé")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "corps multipart requis")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return fail(c, http.StatusBadRequest, "aucune image fournie")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	stored, err := h.Lieux.GetImages(ctx, id)
	if err != nil {
		if err == repository.ErrLieuNotFound {
			return fail(c, http.StatusNotFound, "lieu introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture des images")
	}
	if len(stored)+len(files) > maxImagesPerLieu {
		return fail(c, http.StatusBadRequest, "au maximum 10 images par lieu")
	}
	if msg := checkImageFiles(files); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	urls, err := h.Images.Store(ctx, files)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de l'envoi des images")
	}
	if err := h.Lieux.SetImages(ctx, id, append(stored, urls...)); err != nil {
		h.Images.DeleteMany(ctx, urls)
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour des images")
	}
	return okMsg(c, http.StatusCreated, append(stored, urls...), "images ajoutées")
}

// Remove deletes one stored URL from the list and its object from the
// store. The URL travels in the body to dodge path escaping issues.
func (h *ImageHandler) Remove(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil || req.URL == "" {
		return fail(c, http.StatusBadRequest, "url de l'image requise")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	stored, err := h.Lieux.GetImages(ctx, id)
	if err != nil {
		if err == repository.ErrLieuNotFound {
			return fail(c, http.StatusNotFound, "lieu introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture des images")
	}

	final := make([]string, 0, len(stored))
	found := false
	for _, u := range stored {
		if u == req.URL {
			found = true
			continue
		}
		final = append(final, u)
	}
	if !found {
		return fail(c, http.StatusNotFound, "image introuvable pour ce lieu")
	}

	if err := h.Lieux.SetImages(ctx, id, final); err != nil {
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour des images")
	}
	// Without an object store the URL still leaves the list; the
	// object itself is out of reach anyway.
	if h.Images != nil {
		h.Images.DeleteMany(ctx, []string{req.URL})
	}
	return okMsg(c, http.StatusOK, final, "image supprimée")
}
