package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/serialize"
)

// requestTimeout bounds every database call issued from a handler.
const requestTimeoutSec = 5

var errBadID = errors.New("identifiant invalide")

// currentUserID reads the authenticated user's ID stored by the JWT
// middleware. Zero means the route forgot to wrap itself with JWTAuth.
func currentUserID(c echo.Context) int64 {
	if id, ok := c.Get("user_id").(int64); ok {
		return id
	}
	return 0
}

func currentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// parseID parses a positive integer route parameter. Anything else,
// including zero and negatives, is rejected.
func parseID(c echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// parseIDString parses a positive integer from a JSON string field.
// Identifiers are serialized as decimal strings, so they come back the
// same way.
func parseIDString(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// Image upload constraints for venue attachments.
const (
	maxImagesPerLieu  = 10
	maxImageSizeBytes = 5 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// checkImageFiles validates count, size and declared content type of
// uploaded image files before anything is stored.
func checkImageFiles(files []*multipart.FileHeader) string {
	if len(files) > maxImagesPerLieu {
		return "au maximum 10 images par lieu"
	}
	for _, fh := range files {
		if fh.Size > maxImageSizeBytes {
			return "chaque image doit faire moins de 5 Mo"
		}
		if !allowedImageTypes[fh.Header.Get("Content-Type")] {
			return "formats d'image acceptés : JPEG, PNG, WebP"
		}
	}
	return ""
}

// imagePlan is the outcome of reconciling a venue's stored image list
// with an update request.
type imagePlan struct {
	// Final is the list to persist.
	Final []string
	// Removed holds URLs dropped from the list, stored ones and
	// surplus uploads alike; their objects must be deleted after the
	// database write succeeds.
	Removed []string
}

// reconcileImages merges the stored image list with freshly uploaded
// URLs, honoring two optional controls: replaceIndex swaps the stored
// image at that position for the first upload, and toDelete lists
// stored URLs to drop. When a replacement is requested only the first
// upload is kept; the rest is discarded, never appended. toDelete
// entries are normalized to storage form before comparison, and URLs
// that are not actually stored are ignored so a stale client cannot
// delete foreign objects.
func reconcileImages(stored, uploaded, toDelete []string, replaceIndex *int) imagePlan {
	drop := make(map[string]bool, len(toDelete))
	for _, u := range toDelete {
		drop[serialize.NormalizeImagePath(u)] = true
	}

	final := make([]string, 0, len(stored)+len(uploaded))
	removed := make([]string, 0)
	remaining := uploaded

	for i, u := range stored {
		if drop[u] {
			removed = append(removed, u)
			continue
		}
		if replaceIndex != nil && i == *replaceIndex && len(remaining) > 0 {
			removed = append(removed, u)
			final = append(final, remaining[0])
			remaining = remaining[1:]
			continue
		}
		final = append(final, u)
	}
	if replaceIndex != nil {
		removed = append(removed, remaining...)
	} else {
		final = append(final, remaining...)
	}

	return imagePlan{Final: final, Removed: removed}
}

// parseImageControls extracts and strips the image control fields from
// an update payload: replaceImageIndex (integer) and imagesToDelete
// (JSON array of URLs, or a single URL).
func parseImageControls(payload map[string]any) (replaceIndex *int, toDelete []string) {
	if raw, ok := payload["replaceImageIndex"]; ok {
		delete(payload, "replaceImageIndex")
		switch v := raw.(type) {
		case float64:
			idx := int(v)
			replaceIndex = &idx
		case string:
			if idx, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				replaceIndex = &idx
			}
		}
	}
	if raw, ok := payload["imagesToDelete"]; ok {
		delete(payload, "imagesToDelete")
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					toDelete = append(toDelete, s)
				}
			}
		case string:
			s := strings.TrimSpace(v)
			if strings.HasPrefix(s, "[") {
				var list []string
				if err := json.Unmarshal([]byte(s), &list); err == nil {
					toDelete = list
				}
			} else if s != "" {
				toDelete = []string{s}
			}
		}
	}
	return replaceIndex, toDelete
}
