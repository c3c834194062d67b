package handlers

import (
	"net/http"

	"github.com/ahamhfc/aham-cms-api/internal/middleware"
	"github.com/ahamhfc/aham-cms-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// @Summary Public Content
// @Description Published documents of a section. Singleton sections return one document or null.
// @Tags Content
// @Produce json
// @Param section path string true "Section" Enums(banners, products, testimonials, articles, seo, about_stats, footer, emi_calculator)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /content/{section} [get]
func (h *ContentHandler) Public(c *gin.Context) {
	section := c.Param("section")
	sec, err := h.contentService.Section(section)
	if err != nil {
		respondError(c, err)
		return
	}

	docs, err := h.contentService.ListPublished(c.Request.Context(), section)
	if err != nil {
		respondError(c, err)
		return
	}

	if sec.Singleton {
		if len(docs) == 0 {
			c.JSON(http.StatusOK, gin.H{section: nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{section: docs[0]})
		return
	}
	c.JSON(http.StatusOK, gin.H{section: docs})
}

// @Summary List Content
// @Description All documents of a section, drafts included
// @Tags Content
// @Produce json
// @Param section path string true "Section"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/content/{section} [get]
func (h *ContentHandler) Index(c *gin.Context) {
	section := c.Param("section")
	docs, err := h.contentService.List(c.Request.Context(), section)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{section: docs})
}

// @Summary Show Content
// @Tags Content
// @Produce json
// @Param section path string true "Section"
// @Param id path string true "Document ID"
// @Success 200 {object} models.ContentDocument
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/content/{section}/{id} [get]
func (h *ContentHandler) Show(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	doc, err := h.contentService.Get(c.Request.Context(), c.Param("section"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// @Summary Create Content
// @Description Body is {"data": {...}, "status": bool} or the document fields flat
// @Tags Content
// @Accept json
// @Produce json
// @Param section path string true "Section"
// @Success 201 {object} models.ContentDocument
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/content/{section} [post]
func (h *ContentHandler) Create(c *gin.Context) {
	data, status, err := bindContent(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	doc, err := h.contentService.Create(c.Request.Context(), middleware.GetUserEmail(c), c.Param("section"), data, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// @Summary Update Content
// @Tags Content
// @Accept json
// @Produce json
// @Param section path string true "Section"
// @Param id path string true "Document ID"
// @Success 200 {object} models.ContentDocument
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/content/{section}/{id} [put]
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	data, status, err := bindContent(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	doc, err := h.contentService.Update(c.Request.Context(), middleware.GetUserEmail(c), c.Param("section"), id, data, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// @Summary Delete Content
// @Description Singleton sections cannot be deleted
// @Tags Content
// @Produce json
// @Param section path string true "Section"
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 405 {object} map[string]string
// @Security BearerAuth
// @Router /admin/content/{section}/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.contentService.Delete(c.Request.Context(), middleware.GetUserEmail(c), c.Param("section"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// parseUUIDParam writes a 400 and returns false when the path param is not a UUID.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
