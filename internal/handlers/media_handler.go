package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ahamhfc/aham-cms-api/internal/middleware"
	"github.com/ahamhfc/aham-cms-api/internal/services"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the allowance for boundaries and part headers on top of the file itself.
const multipartOverhead = 64 * 1024

type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// @Summary Upload Image
// @Description Validates, resizes to at most 1920px wide and stores an image (max 2MB)
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} models.MediaAsset
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Security BearerAuth
// @Router /admin/media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, services.ErrPayloadTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file field is required"})
		return
	}
	if fileHeader.Size > services.MaxUploadBytes {
		respondError(c, services.ErrPayloadTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the ingest size check to trip
	raw, err := io.ReadAll(io.LimitReader(file, services.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	asset, err := h.mediaService.Ingest(c.Request.Context(), raw, fileHeader.Filename, middleware.GetUserEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// @Summary Media Library
// @Description Lists assets, newest first
// @Tags Media
// @Produce json
// @Param limit query int false "Max items" default(100)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/media/library [get]
func (h *MediaHandler) Index(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	assets, err := h.mediaService.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": assets})
}

// @Summary Show Media
// @Tags Media
// @Produce json
// @Param media_id path string true "Media ID"
// @Success 200 {object} models.MediaAsset
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/media/{media_id} [get]
func (h *MediaHandler) Show(c *gin.Context) {
	id, ok := parseUUIDParam(c, "media_id")
	if !ok {
		return
	}
	asset, err := h.mediaService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

type UpdateAltTextRequest struct {
	AltTextEN string `json:"alt_text_en"`
	AltTextTA string `json:"alt_text_ta"`
}

// @Summary Update Alt Text
// @Tags Media
// @Accept json
// @Produce json
// @Param media_id path string true "Media ID"
// @Param request body UpdateAltTextRequest true "Alt text"
// @Success 200 {object} models.MediaAsset
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/media/{media_id} [patch]
func (h *MediaHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "media_id")
	if !ok {
		return
	}
	var req UpdateAltTextRequest
	if err := BindNestedOrFlat(c, "media", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	asset, err := h.mediaService.UpdateAltText(c.Request.Context(), id, middleware.GetUserEmail(c), req.AltTextEN, req.AltTextTA)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// @Summary Delete Media
// @Description Removes the stored file and the metadata record
// @Tags Media
// @Produce json
// @Param media_id path string true "Media ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/media/{media_id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "media_id")
	if !ok {
		return
	}
	if err := h.mediaService.Delete(c.Request.Context(), id, middleware.GetUserEmail(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Media deleted"})
}
