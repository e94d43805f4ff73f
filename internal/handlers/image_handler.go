package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"eventify_backend/internal/imaging"
	"eventify_backend/internal/logger"
	"eventify_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ImageHandler serves resized event images from the variant cache.
type ImageHandler struct {
	*BaseHandler
	resizer *imaging.Resizer
}

func NewImageHandler(base *BaseHandler, resizer *imaging.Resizer) *ImageHandler {
	return &ImageHandler{BaseHandler: base, resizer: resizer}
}

// Serve handles GET /images/:width/:filename. Resized variants are
// immutable for a given original, so clients may cache them for a year;
// replacing the original busts the server-side cache via mtime.
func (h *ImageHandler) Serve(c *gin.Context) {
	width, err := strconv.Atoi(c.Param("width"))
	if err != nil || width <= 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("width must be a positive integer"))
		return
	}

	img, err := h.resizer.Serve(width, c.Param("filename"))
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrInvalidFilename):
			apperrors.HandleError(c, apperrors.NewBadRequestError("invalid image filename"))
		case errors.Is(err, imaging.ErrImageNotFound):
			apperrors.HandleError(c, apperrors.NewNotFoundError("images", "image not found"))
		default:
			logger.CtxWithError(c.Request.Context(), "image resize failed", err,
				"width", width, "filename", c.Param("filename"))
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
