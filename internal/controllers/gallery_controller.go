package controllers

import (
	"errors"
	"net/http"
	"waifud/internal/models"
	"waifud/internal/providers"
	"waifud/internal/services"
)

// GalleryController serves composed gallery images. Outputs are regenerated on
// every request; only the shared base canvas is cached on disk.
type GalleryController struct {
	logger  providers.Logger
	service services.WifeServiceInterface
}

func NewGalleryController(logger providers.Logger, service services.WifeServiceInterface) *GalleryController {
	return &GalleryController{
		logger:  logger,
		service: service,
	}
}

func (gc *GalleryController) GroupGallery(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	if groupID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	path, err := gc.service.GroupGallery(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, models.ErrStoreUnavailable) {
			http.Error(w, "item store is empty", http.StatusServiceUnavailable)
			return
		}
		gc.logger.Errorf(providers.TypeGet, "Gallery build failed for group %s: %s", groupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

func (gc *GalleryController) PersonalGallery(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	userID := r.URL.Query().Get("user")
	if groupID == "" || userID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	path, err := gc.service.PersonalGallery(r.Context(), groupID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			http.Error(w, "no unlocked items", http.StatusNotFound)
			return
		}
		gc.logger.Errorf(providers.TypeGet, "Personal gallery failed for user %s: %s", userID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// InvalidateBase is the manual hook for catalog changes; the base is never
// invalidated automatically. Admin-only.
func (gc *GalleryController) InvalidateBase(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := gc.service.InvalidateBase(userID); err != nil {
		if errors.Is(err, models.ErrNotAdmin) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		gc.logger.Errorf(providers.TypeGet, "Base invalidation failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
