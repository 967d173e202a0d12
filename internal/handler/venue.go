package handler

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/repository"
	"github.com/Kiraws/ExploreTogoBack/internal/schema"
	"github.com/Kiraws/ExploreTogoBack/internal/storage"
)

// placeholderNames are imported rows without a usable display name;
// the public listing hides them.
var placeholderNames = []string{"Non spécifié", "Néant"}

// VenueHandler bundles dependencies for the venue endpoints.
type VenueHandler struct {
	Lieux  *repository.LieuRepo
	Images *storage.ImageStore
}

func NewVenueHandler(lieux *repository.LieuRepo, images *storage.ImageStore) *VenueHandler {
	return &VenueHandler{Lieux: lieux, Images: images}
}

// venuePayload reads the request into a generic payload plus uploaded
// image files. Multipart requests carry scalar fields as form values
// and files under "images"; JSON requests carry the payload directly.
func venuePayload(c echo.Context) (map[string]any, []*multipart.FileHeader, error) {
	ct := c.Request().Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, err
		}
		payload := make(map[string]any, len(form.Value))
		for k, vals := range form.Value {
			if len(vals) == 1 {
				payload[k] = vals[0]
			} else if len(vals) > 1 {
				items := make([]any, len(vals))
				for i, v := range vals {
					items[i] = v
				}
				payload[k] = items
			}
		}
		return payload, form.File["images"], nil
	}

	payload := make(map[string]any)
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return nil, nil, err
	}
	return payload, nil, nil
}

// Create registers a new venue with its type-specific record and any
// uploaded images. Images already stored are deleted again when the
// database insert fails, so a failed create leaves no orphan objects.
func (h *VenueHandler) Create(c echo.Context) error {
	payload, files, err := venuePayload(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	if msg := checkImageFiles(files); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	in, errs := schema.ValidateLieu(payload)
	if len(errs) > 0 {
		return failValidation(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if len(files) > 0 && h.Images != nil {
		urls, err := h.Images.Store(ctx, files)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "échec de l'envoi des images")
		}
		in.EtabImages = urls
	}

	id, err := h.Lieux.Create(ctx, in)
	if err != nil {
		if h.Images != nil {
			h.Images.DeleteMany(ctx, in.EtabImages)
		}
		if err == repository.ErrUnknownType {
			return fail(c, http.StatusBadRequest, "type de lieu inconnu")
		}
		c.Logger().Errorf("create lieu: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création du lieu")
	}

	view, err := h.Lieux.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de la lecture du lieu créé")
	}
	return okMsg(c, http.StatusCreated, view, "lieu créé avec succès")
}

// GetByID returns the assembled view of one venue.
func (h *VenueHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	view, err := h.Lieux.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrLieuNotFound {
			return fail(c, http.StatusNotFound, "lieu introuvable")
		}
		c.Logger().Errorf("get lieu %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture du lieu")
	}
	return ok(c, http.StatusOK, view)
}

// List returns every active venue.
func (h *VenueHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	views, err := h.Lieux.List(ctx, placeholderNames)
	if err != nil {
		c.Logger().Errorf("list lieux: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des lieux")
	}
	return ok(c, http.StatusOK, views)
}

// Update applies a partial update. Uploaded files and the two control
// fields replaceImageIndex / imagesToDelete drive the image
// reconciliation; objects dropped from the list are deleted from the
// store only after the database write committed.
func (h *VenueHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	payload, files, err := venuePayload(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	if msg := checkImageFiles(files); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	replaceIndex, toDelete := parseImageControls(payload)
	hasImageOps := len(files) > 0 || len(toDelete) > 0 || replaceIndex != nil

	// Field-level errors come back with a nil patch and are always
	// fatal. The empty-patch error keeps the (empty) patch and is
	// satisfied by image operations alone.
	patch, errs := schema.ValidateLieuPatch(payload)
	if len(errs) > 0 && (patch == nil || !hasImageOps) {
		return failValidation(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	var uploaded []string
	if hasImageOps {
		stored, err := h.Lieux.GetImages(ctx, id)
		if err != nil {
			if err == repository.ErrLieuNotFound {
				return fail(c, http.StatusNotFound, "lieu introuvable")
			}
			return fail(c, http.StatusInternalServerError, "échec de la lecture du lieu")
		}
		if len(files) > 0 && h.Images != nil {
			uploaded, err = h.Images.Store(ctx, files)
			if err != nil {
				return fail(c, http.StatusInternalServerError, "échec de l'envoi des images")
			}
		}
		plan := reconcileImages(stored, uploaded, toDelete, replaceIndex)
		patch.EtabImages = &plan.Final
		toDelete = plan.Removed
	} else {
		toDelete = nil
	}

	view, err := h.Lieux.Update(ctx, id, patch)
	if err != nil {
		if h.Images != nil {
			h.Images.DeleteMany(ctx, uploaded)
		}
		switch err {
		case repository.ErrLieuNotFound:
			return fail(c, http.StatusNotFound, "lieu introuvable")
		case repository.ErrTypeImmutable:
			return fail(c, http.StatusBadRequest, "le type d'un lieu ne peut pas être modifié")
		default:
			c.Logger().Errorf("update lieu %d: %v", id, err)
			return fail(c, http.StatusInternalServerError, "échec de la mise à jour du lieu")
		}
	}

	if h.Images != nil {
		h.Images.DeleteMany(ctx, toDelete)
	}
	return okMsg(c, http.StatusOK, view, "lieu mis à jour avec succès")
}

// Desactivate hides a venue from the public listing without touching
// its data or images.
func (h *VenueHandler) Desactivate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	view, err := h.Lieux.Desactivate(ctx, id)
	if err != nil {
		if err == repository.ErrLieuNotFound {
			return fail(c, http.StatusNotFound, "lieu introuvable")
		}
		c.Logger().Errorf("desactivate lieu %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la désactivation du lieu")
	}
	return okMsg(c, http.StatusOK, view, "lieu désactivé avec succès")
}

// Delete removes a venue permanently, images included.
func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	// Fetch the image list first: after the delete commits nothing in
	// the database remembers which objects belonged to this venue.
	images, err := h.Lieux.GetImages(ctx, id)
	if err != nil && err != repository.ErrLieuNotFound {
		return fail(c, http.StatusInternalServerError, "échec de la lecture du lieu")
	}

	if err := h.Lieux.Delete(ctx, id); err != nil {
		if err == repository.ErrLieuNotFound {
			return fail(c, http.StatusNotFound, "lieu introuvable")
		}
		c.Logger().Errorf("delete lieu %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression du lieu")
	}

	if h.Images != nil {
		h.Images.DeleteMany(ctx, images)
	}
	return okMsg(c, http.StatusOK, nil, "lieu supprimé avec succès")
}
