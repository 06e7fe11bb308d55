package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
)

// TagHandler serves the read-only tag reference data.
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new TagHandler instance
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// RegisterRoutes wires the tag endpoints. Anonymous access is allowed.
func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
