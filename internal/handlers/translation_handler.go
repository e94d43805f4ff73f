package handlers

import (
	"net/http"

	"eventify_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type TranslationHandler struct {
	*BaseHandler
	translationService services.TranslationService
}

func NewTranslationHandler(base *BaseHandler, translationService services.TranslationService) *TranslationHandler {
	return &TranslationHandler{BaseHandler: base, translationService: translationService}
}

func (h *TranslationHandler) Show(c *gin.Context) {
	translations, err := h.translationService.Translations(c.Request.Context(), c.Param("locale"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, gin.H{"data": translations})
}

func (h *TranslationHandler) Locales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.translationService.Locales()})
}
