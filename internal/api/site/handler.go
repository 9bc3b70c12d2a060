package siteapi

import (
	"net/http"

	"artist-portfolio/internal/api/respond"
	"artist-portfolio/internal/domain/site"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the three settings singletons. Reads fall back to defaults;
// writes only change the fields present in the body.
type Handler struct {
	store *site.Store
	log   *zap.Logger
}

func NewHandler(store *site.Store, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// GET /api/artist
func (h *Handler) GetArtist(c *gin.Context) {
	a, err := h.store.ArtistInfo(c.Request.Context())
	if err != nil {
		respond.Internal(c, h.log, "load artist info", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// PUT /api/artist
func (h *Handler) UpdateArtist(c *gin.Context) {
	var p site.ArtistPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.BindError(c, err)
		return
	}
	a, err := h.store.UpdateArtistInfo(c.Request.Context(), p)
	if err != nil {
		respond.Internal(c, h.log, "update artist info", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist info updated", "artistInfo": a})
}

// GET /api/contact-info
func (h *Handler) GetContactInfo(c *gin.Context) {
	ci, err := h.store.ContactInfo(c.Request.Context())
	if err != nil {
		respond.Internal(c, h.log, "load contact info", err)
		return
	}
	c.JSON(http.StatusOK, ci)
}

// PUT /api/contact-info
func (h *Handler) UpdateContactInfo(c *gin.Context) {
	var p site.ContactInfoPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.BindError(c, err)
		return
	}
	ci, err := h.store.UpdateContactInfo(c.Request.Context(), p)
	if err != nil {
		respond.Internal(c, h.log, "update contact info", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact info updated", "contactInfo": ci})
}

// GET /api/site-settings
func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.store.Settings(c.Request.Context())
	if err != nil {
		respond.Internal(c, h.log, "load site settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// PUT /api/site-settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var p site.SettingsPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.BindError(c, err)
		return
	}
	s, err := h.store.UpdateSettings(c.Request.Context(), p)
	if err != nil {
		respond.Internal(c, h.log, "update site settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Site settings updated", "settings": s})
}
