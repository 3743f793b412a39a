package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"waifud/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGalleryController(svc *mockService) *GalleryController {
	return NewGalleryController(&controllerTestLogger{}, svc)
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gallery_111.png")
	require.NoError(t, os.WriteFile(path, []byte("fake png bytes"), 0o644))
	return path
}

func TestGalleryController_RequiresGroup(t *testing.T) {
	gc := newGalleryController(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	rec := httptest.NewRecorder()

	gc.GroupGallery(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGalleryController_ServesGroupImage(t *testing.T) {
	gc := newGalleryController(&mockService{groupPath: writeTestImage(t)})
	req := httptest.NewRequest(http.MethodGet, "/gallery?group=111", nil)
	rec := httptest.NewRecorder()

	gc.GroupGallery(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fake png bytes", rec.Body.String())
}

func TestGalleryController_EmptyStoreIs503(t *testing.T) {
	gc := newGalleryController(&mockService{groupErr: models.ErrStoreUnavailable})
	req := httptest.NewRequest(http.MethodGet, "/gallery?group=111", nil)
	rec := httptest.NewRecorder()

	gc.GroupGallery(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGalleryController_BuildFailureIs500(t *testing.T) {
	gc := newGalleryController(&mockService{groupErr: errors.New("encode failed")})
	req := httptest.NewRequest(http.MethodGet, "/gallery?group=111", nil)
	rec := httptest.NewRecorder()

	gc.GroupGallery(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGalleryController_PersonalRequiresGroupAndUser(t *testing.T) {
	gc := newGalleryController(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/gallery/personal?group=111", nil)
	rec := httptest.NewRecorder()

	gc.PersonalGallery(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGalleryController_PersonalNoRecordIs404(t *testing.T) {
	gc := newGalleryController(&mockService{personalErr: models.ErrNoRecord})
	req := httptest.NewRequest(http.MethodGet, "/gallery/personal?group=111&user=u1", nil)
	rec := httptest.NewRecorder()

	gc.PersonalGallery(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGalleryController_InvalidateBase(t *testing.T) {
	gc := newGalleryController(&mockService{})
	req := httptest.NewRequest(http.MethodDelete, "/gallery/base?user=9001", nil)
	rec := httptest.NewRecorder()

	gc.InvalidateBase(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGalleryController_InvalidateBaseRequiresUser(t *testing.T) {
	gc := newGalleryController(&mockService{})
	req := httptest.NewRequest(http.MethodDelete, "/gallery/base", nil)
	rec := httptest.NewRecorder()

	gc.InvalidateBase(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGalleryController_InvalidateBaseNonAdminIs403(t *testing.T) {
	gc := newGalleryController(&mockService{baseErr: models.ErrNotAdmin})
	req := httptest.NewRequest(http.MethodDelete, "/gallery/base?user=42", nil)
	rec := httptest.NewRecorder()

	gc.InvalidateBase(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
